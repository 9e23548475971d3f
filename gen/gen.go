package gen

import (
	"time"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/pipeline"
)

// NewPipeline builds the standard generation pipeline. now pins the script
// timestamp; pass nil for wall-clock time.
func NewPipeline(now func() time.Time) *pipeline.Pipeline {
	return pipeline.New(
		&SpecStage{},
		&ResolveStage{},
		&RenderStage{Now: now},
		&WriteStage{},
	)
}

// NewDryRunPipeline builds the pipeline without the file write, for
// previewing the script.
func NewDryRunPipeline(now func() time.Time) *pipeline.Pipeline {
	return pipeline.New(
		&SpecStage{},
		&ResolveStage{},
		&RenderStage{Now: now},
	)
}
