// Package diff compares test output against golden files under testdata.
package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"oss.terrastruct.com/diff"
)

// Testdata compares got against <path>.exp<ext>. On a mismatch the diff is returned and
// got is left at <path>.got<ext>; with $TESTDATA_ACCEPT set it replaces the expectation
// instead.
func Testdata(path, ext string, got []byte) (err error) {
	expPath := fmt.Sprintf("%s.exp%s", path, ext)
	gotPath := fmt.Sprintf("%s.got%s", path, ext)

	err = os.MkdirAll(filepath.Dir(gotPath), 0755)
	if err != nil {
		return err
	}
	err = os.WriteFile(gotPath, got, 0600)
	if err != nil {
		return err
	}

	ds, err := diff.Files(expPath, gotPath)
	if err != nil {
		return err
	}

	if ds != "" {
		if os.Getenv("TESTDATA_ACCEPT") != "" {
			return os.Rename(gotPath, expPath)
		}
		return fmt.Errorf("diff (rerun with $TESTDATA_ACCEPT=1 to accept):\n%s", ds)
	}
	return os.Remove(gotPath)
}
