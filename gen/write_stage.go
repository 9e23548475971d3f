package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/pipeline"
)

// WriteStage writes the assembled script to <agent>_grants.sql in the
// output directory.
type WriteStage struct{}

func (s *WriteStage) Name() string { return "write-script" }

func (s *WriteStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	dir := rc.Opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	name := strings.ToLower(rc.Opts.Agent) + "_grants.sql"
	outPath := filepath.Join(dir, name)
	if err := os.WriteFile(outPath, []byte(rc.Script), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	rc.AddFile(name, outPath)
	return nil
}
