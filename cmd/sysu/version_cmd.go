package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sysu-dev/sysu/version"
)

// VersionCmd prints build version info, set via -ldflags the same way
// the teacher's own binaries are stamped.
type VersionCmd struct {
	JSON bool `help:"print as JSON"`
}

func (c *VersionCmd) Run(cctx *Context) error {
	info := version.Get()
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintf(os.Stdout, "repo:   %s\nbranch: %s\ncommit: %s\nbuilt:  %s\n",
		info.GitRepo, info.GitBranch, info.GitCommit, info.BuildTime)
	return nil
}
