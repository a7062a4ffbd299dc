package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/redcc/lang/cpp"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/source"
)

// pipeline bundles the collaborators every command wires up once per run:
// a shared file store and intern table (so diagnostics across files share
// the same identifier ids) and the search path built from -I.
type pipeline struct {
	files  *source.Store
	intrn  *intern.Table
	search cpp.SearchPath
}

func newPipeline(c *Cmd) *pipeline {
	return &pipeline{
		files:  source.NewStore(),
		intrn:  intern.NewTable(),
		search: cpp.SearchPath{Dirs: c.includeDirs()},
	}
}

// loadFile reads path off disk into the pipeline's file store.
func (pl *pipeline) loadFile(path string) (*source.File, error) {
	contents, err := (source.OSLoader{}).Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pl.files.AddFile(path, contents), nil
}

// reportDiagnostics prints every recorded diagnostic and returns the
// list's Err(), the signal every command uses to decide its exit code.
func reportDiagnostics(stdio mainer.Stdio, list *diag.List) error {
	list.Sort()
	diag.PrintTo(stdio.Stderr, list)
	return list.Err()
}
