package mmdcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/mmdgen/lib/go2"
	"oss.terrastruct.com/mmdgen/lib/log"
	"oss.terrastruct.com/mmdgen/lib/simplelog"
	"oss.terrastruct.com/mmdgen/lib/version"
	"oss.terrastruct.com/mmdgen/lib/xbrowser"
	"oss.terrastruct.com/mmdgen/lib/xmain"
	"oss.terrastruct.com/mmdgen/mmdbuild"
	"oss.terrastruct.com/mmdgen/mmdrender"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	proj, err := loadProject(ms.AbsPath(projectFile))
	if err != nil {
		return err
	}

	diagramsFlag := ms.Opts.String("MMDGEN_DIAGRAMS", "diagrams", "", or(proj.Diagrams, mmdbuild.DefaultDiagramsDir), "directory containing the .mmd diagram sources")
	imagesFlag := ms.Opts.String("MMDGEN_IMAGES", "images", "", or(proj.Images, mmdbuild.DefaultImagesDir), "directory the rendered images are written to")
	configFlag := ms.Opts.String("MMDGEN_CONFIG", "config", "", or(proj.Config, mmdbuild.DefaultConfigPath), "mermaid-cli config file, created with defaults when missing")
	rendererFlag := ms.Opts.String("MMDGEN_RENDERER", "renderer", "", or(proj.Renderer, mmdrender.DefaultBinary), "renderer executable, looked up in $PATH")
	formatFlag := ms.Opts.String("MMDGEN_FORMAT", "format", "f", or(proj.Format, mmdbuild.DefaultFormat), fmt.Sprintf("output format (%s)", strings.Join(mmdbuild.Formats, ", ")))
	timeoutFlag, err := ms.Opts.Int64("MMDGEN_TIMEOUT", "timeout", "", 0, "the maximum number of seconds a single diagram may take to render. 0 disables the limit")
	if err != nil {
		return err
	}
	strictFlag, err := ms.Opts.Bool("MMDGEN_STRICT", "strict", "", false, "exit with a non zero status when any diagram fails to render")
	if err != nil {
		return err
	}
	watchFlag, err := ms.Opts.Bool("MMDGEN_WATCH", "watch", "w", false, "after rendering, watch the diagrams directory and re-render sources as they change")
	if err != nil {
		return err
	}
	openFlag, err := ms.Opts.Bool("MMDGEN_OPEN", "open", "", false, "open the images directory when done. Set $BROWSER to choose the program, BROWSER=0 disables")
	if err != nil {
		return err
	}
	jsonFlag, err := ms.Opts.Bool("", "json", "", false, "with list, print the diagrams as JSON")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}
	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}

	err = mmdbuild.ValidateFormat(*formatFlag)
	if err != nil {
		return xmain.UsageErrorf("%v", err)
	}
	if *timeoutFlag < 0 {
		return xmain.UsageErrorf("--timeout must not be negative, got %d", *timeoutFlag)
	}

	layout := mmdbuild.Layout{
		DiagramsDir: ms.AbsPath(*diagramsFlag),
		ImagesDir:   ms.AbsPath(*imagesFlag),
		ConfigPath:  ms.AbsPath(*configFlag),
		Format:      *formatFlag,
	}

	subcommand := ""
	if len(ms.Opts.Flags.Args()) > 0 {
		subcommand = ms.Opts.Flags.Arg(0)
		if len(ms.Opts.Flags.Args()) > 1 {
			return xmain.UsageErrorf("%s accepts no arguments", subcommand)
		}
	}
	if *jsonFlag && subcommand != "list" {
		return xmain.UsageErrorf("--json is only supported by list")
	}
	switch subcommand {
	case "":
	case "help":
		help(ms)
		return nil
	case "version":
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	case "init":
		return setup(ms, layout)
	case "list":
		return listCmd(ms, layout, *jsonFlag)
	default:
		return xmain.UsageErrorf("unknown subcommand %q", subcommand)
	}

	if *watchFlag && *strictFlag {
		return xmain.UsageErrorf("--strict cannot be combined with --watch")
	}

	err = setup(ms, layout)
	if err != nil {
		return err
	}

	d := &mmdbuild.Driver{
		Layout:   layout,
		Renderer: mmdrender.Exec(*rendererFlag, ms.Env),
		Log:      simplelog.FromCmdLog(ms.Log),
		Timeout:  time.Duration(*timeoutFlag) * time.Second,
	}

	if *watchFlag {
		w, err := newWatcher(ctx, ms, d)
		if err != nil {
			return err
		}
		defer w.close()
		s, err := build(ctx, ms, d)
		if err != nil {
			return err
		}
		if *openFlag {
			openImages(ctx, ms, layout, s)
		}
		return w.run()
	}

	s, err := build(ctx, ms, d)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	if *openFlag {
		openImages(ctx, ms, layout, s)
	}
	if *strictFlag && s.Failed() > 0 {
		return xmain.ExitErrorf(1, "%d of %d diagram(s) failed to render: %v", s.Failed(), len(s.Results), s.Err())
	}
	return nil
}

// openImages opens the images directory when s rendered anything.
func openImages(ctx context.Context, ms *xmain.State, layout mmdbuild.Layout, s *mmdbuild.Summary) {
	if s == nil || s.Succeeded() == 0 {
		return
	}
	err := xbrowser.OpenFile(ctx, ms.Env, layout.ImagesDir)
	if err != nil {
		ms.Log.Warn.Printf("failed to open %s: %v", ms.HumanPath(layout.ImagesDir), err)
	}
}

// setup creates the directories and the default config. Failures are fatal.
func setup(ms *xmain.State, layout mmdbuild.Layout) error {
	created, err := mmdbuild.Setup(layout)
	if err != nil {
		return err
	}
	if created {
		ms.Log.Success.Printf("created renderer config %s", ms.HumanPath(layout.ConfigPath))
	}
	c, err := mmdbuild.ReadConfig(layout.ConfigPath)
	if err != nil {
		// mmdc reports anything it cannot use.
		ms.Log.Debug.Printf("%v", err)
		return nil
	}
	ms.Log.Debug.Printf("renderer config: theme %s, %dx%d, scale %v", c.Theme, c.Width, c.Height, c.Scale)
	return nil
}

// build renders every discovered diagram and prints the summary. A nil summary means
// there was nothing to render.
func build(ctx context.Context, ms *xmain.State, d *mmdbuild.Driver) (*mmdbuild.Summary, error) {
	jobs, err := mmdbuild.DiscoverJobs(d.Layout)
	if err != nil {
		return nil, err
	}

	diagramsDir := ms.HumanPath(d.Layout.DiagramsDir)
	if len(jobs) == 0 {
		ms.Log.Warn.Printf("no %s files found in %s", mmdbuild.SourceExt, diagramsDir)
		ms.Log.Info.Printf("create %s files in %s first", mmdbuild.SourceExt, diagramsDir)
		return nil, nil
	}

	ms.Log.Info.Printf("generating %d diagram(s) with %s...", len(jobs), d.Renderer.Name())
	s := d.RunJobs(ctx, jobs)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	ext := strings.ToUpper(d.Layout.Format)
	fmt.Fprintf(ms.Stdout, `diagram generation complete: %s

Next steps:
1. Review generated %[2]s files in %[3]s
2. Update markdown files with image references
3. Commit both %[4]s and %[5]s files to the repository
`, s, ext, ms.HumanPath(d.Layout.ImagesDir), mmdbuild.SourceExt, d.Layout.OutputExt())
	return &s, nil
}

func listCmd(ms *xmain.State, layout mmdbuild.Layout, asJSON bool) error {
	jobs, err := mmdbuild.DiscoverJobs(layout)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		ms.Log.Warn.Printf("no %s files found in %s", mmdbuild.SourceExt, ms.HumanPath(layout.DiagramsDir))
	}
	if asJSON {
		human := make([]mmdbuild.Job, 0, len(jobs))
		for _, j := range jobs {
			human = append(human, mmdbuild.Job{
				Input:  ms.HumanPath(j.Input),
				Output: ms.HumanPath(j.Output),
			})
		}
		enc := json.NewEncoder(ms.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(human)
	}
	for _, j := range jobs {
		fmt.Fprintf(ms.Stdout, "%s -> %s\n", ms.HumanPath(j.Input), ms.HumanPath(j.Output))
	}
	return nil
}
