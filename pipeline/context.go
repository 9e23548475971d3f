package pipeline

import (
	"time"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/grant"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

// RunOptions carries shared configuration for all pipeline stages.
type RunOptions struct {
	// Agent identity.
	Database string
	Schema   string
	Agent    string

	// Role is the name of the role the script creates and grants to.
	Role string
	// Warehouse is the session warehouse the role also gets USAGE on.
	// Empty means no session warehouse grant.
	Warehouse string

	// GrantToSysadmin adds the SYSADMIN handover grant to the script.
	GrantToSysadmin bool

	OutputDir string
	Verbose   bool
}

// AgentFQN returns the agent's fully qualified name.
func (o RunOptions) AgentFQN() string {
	return o.Database + "." + o.Schema + "." + o.Agent
}

// SpecSource supplies the raw agent specification JSON.
type SpecSource func() ([]byte, error)

// RunContext carries all state through a generation run. Stages fill it in
// sequence: spec fetch and parse, semantic model resolution, rendering,
// and finally the script write.
type RunContext struct {
	Opts RunOptions

	// Inputs wired by the caller.
	Source   SpecSource
	Provider semantic.ContentProvider

	// Filled by SpecStage.
	RawSpec []byte
	Tools   []agentspec.Tool

	// Filled by ResolveStage.
	Permissions grant.PermissionSet

	// Filled by RenderStage.
	Statements  []string
	Script      string
	GeneratedAt time.Time

	// Filled by WriteStage.
	GeneratedFiles map[string]string // relPath -> absPath

	Warnings []string
}

// NewRunContext creates a RunContext with the given options and initialized maps.
func NewRunContext(opts RunOptions) *RunContext {
	return &RunContext{
		Opts:           opts,
		GeneratedFiles: make(map[string]string),
	}
}

// AddFile records a generated file in the run context.
func (rc *RunContext) AddFile(relPath, absPath string) {
	rc.GeneratedFiles[relPath] = absPath
}

// AddWarning appends a warning message to the run context.
func (rc *RunContext) AddWarning(msg string) {
	rc.Warnings = append(rc.Warnings, msg)
}
