package gen

import (
	"context"
	"fmt"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/grant"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/pipeline"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

// ResolveStage walks the parsed tools, resolves each analyst tool's
// semantic model to its base tables, and accumulates the permission set.
// A model that cannot be fetched or parsed downgrades to a warning; the
// other tools keep their grants.
type ResolveStage struct{}

func (s *ResolveStage) Name() string { return "resolve-models" }

func (s *ResolveStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	acc := grant.NewAccumulator()
	acc.AddAgent(rc.Opts.Database, rc.Opts.Schema)

	for _, tool := range rc.Tools {
		if err := ctx.Err(); err != nil {
			return err
		}
		acc.AddTool(tool)

		if tool.Kind != agentspec.KindAnalyst || tool.SemanticModel == nil {
			continue
		}
		if rc.Provider == nil {
			rc.AddWarning(fmt.Sprintf("tool %s: no model provider configured, base table grants omitted", tool.Name))
			continue
		}

		res, err := semantic.Resolve(*tool.SemanticModel, rc.Provider)
		if err != nil {
			rc.AddWarning(fmt.Sprintf("tool %s: %v", tool.Name, err))
			continue
		}
		if len(res.Tables) == 0 {
			rc.AddWarning(fmt.Sprintf("tool %s: no base tables found in semantic model", tool.Name))
		}
		acc.AddResolvedTables(tool, res)
	}

	rc.Permissions = acc.Finalize()
	return nil
}
