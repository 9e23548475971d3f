package snowflake

import (
	"context"
	"fmt"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

// NewContentProvider adapts a live connection into the resolver's content
// provider, dispatching on where the semantic model lives.
func NewContentProvider(ctx context.Context, db Execer) semantic.ContentProvider {
	return func(ref agentspec.SemanticModelRef) (string, error) {
		switch ref.Location {
		case agentspec.LocationView:
			return ReadSemanticViewYAML(ctx, db, ref.View)
		case agentspec.LocationStage:
			return ReadStageFile(ctx, db, ref.Stage)
		default:
			return "", fmt.Errorf("unknown semantic model location %v", ref.Location)
		}
	}
}
