package gen

import (
	"context"
	"fmt"
	"time"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/grant"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/pipeline"
)

// RenderStage turns the accumulated permission set into the grant
// statements and the full reviewable script.
type RenderStage struct {
	// Now supplies the script timestamp. Nil means time.Now; tests pin it.
	Now func() time.Time
}

func (s *RenderStage) Name() string { return "render-script" }

func (s *RenderStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	stmts, err := grant.Render(rc.Permissions, rc.Opts.Role, rc.Opts.AgentFQN(), rc.Opts.Warehouse)
	if err != nil {
		return fmt.Errorf("rendering grants: %w", err)
	}
	rc.Statements = stmts

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rc.GeneratedAt = now().UTC()

	script, err := grant.Script(rc.Permissions, grant.ScriptParams{
		Role:            rc.Opts.Role,
		AgentFQN:        rc.Opts.AgentFQN(),
		Warehouse:       rc.Opts.Warehouse,
		GeneratedAt:     rc.GeneratedAt,
		GrantToSysadmin: rc.Opts.GrantToSysadmin,
	})
	if err != nil {
		return fmt.Errorf("assembling grant script: %w", err)
	}
	rc.Script = script
	return nil
}
