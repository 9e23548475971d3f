// Package gen implements the grant generation pipeline stages: fetch and
// parse the agent spec, resolve semantic models, render the grant script,
// and write it out.
package gen

import (
	"context"
	"fmt"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/pipeline"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/validate"
)

// SpecStage fetches the raw agent specification, checks it against the
// spec schema, and parses the tool inventory.
type SpecStage struct{}

func (s *SpecStage) Name() string { return "fetch-spec" }

func (s *SpecStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	if rc.Source == nil {
		return fmt.Errorf("no spec source configured")
	}

	raw, err := rc.Source()
	if err != nil {
		return fmt.Errorf("fetching agent spec for %s: %w", rc.Opts.AgentFQN(), err)
	}
	rc.RawSpec = raw

	// Schema findings are advisory. The parser skips bad entries on its
	// own, so a spec the schema dislikes can still yield a useful script.
	findings, err := validate.ValidateAgentSpec(raw)
	if err != nil {
		return fmt.Errorf("validating agent spec: %w", err)
	}
	for _, f := range findings {
		rc.AddWarning("spec schema: " + f)
	}

	result, err := agentspec.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing agent spec: %w", err)
	}
	rc.Tools = result.Tools
	for _, w := range result.Warnings {
		rc.AddWarning(w.String())
	}
	return nil
}
