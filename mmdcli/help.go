package mmdcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/mmdgen/lib/version"
	"oss.terrastruct.com/mmdgen/lib/xmain"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--format=svg] [--watch] [--strict]
  %[1]s init
  %[1]s list [--json]

%[1]s renders every diagrams/*.mmd to images/*.svg with mermaid-cli (mmdc),
creating the directories and scripts/mermaid-config.json when missing.
mmdc must be installed and on $PATH: npm install -g @mermaid-js/mermaid-cli

With --watch, --open applies to the first build only and --strict is rejected.

Defaults may also be set in %[4]s in the working directory.

Flags:
%[3]s

Subcommands:
  %[1]s init - Create the directories and the default renderer config
  %[1]s list - List the diagrams that would be rendered, as JSON with --json
  %[1]s version - Print the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults(), projectFile)
}
