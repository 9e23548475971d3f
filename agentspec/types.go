package agentspec

import "fmt"

// ToolKind is the closed set of tool categories the generator understands.
// The raw type string from the agent spec is resolved to a ToolKind exactly
// once, at parse time.
type ToolKind string

const (
	// KindAnalyst marks Cortex Analyst text-to-SQL tools backed by a
	// semantic view or a semantic model file.
	KindAnalyst ToolKind = "analyst"
	// KindSearch marks Cortex Search tools backed by a search service.
	KindSearch ToolKind = "search"
	// KindGeneric marks procedure-backed tools and anything with a type
	// string the generator does not recognize.
	KindGeneric ToolKind = "generic"
)

// ModelLocation tells the resolver where a semantic model's YAML lives.
type ModelLocation string

const (
	// LocationView means the model is readable from a semantic view via
	// SYSTEM$READ_YAML_FROM_SEMANTIC_VIEW.
	LocationView ModelLocation = "semantic_view"
	// LocationStage means the model is a YAML file on a stage.
	LocationStage ModelLocation = "stage_file"
)

// StagePath is a parsed stage file reference of the form
// @DATABASE.SCHEMA.STAGE/path/to/file.yaml.
type StagePath struct {
	Database string
	Schema   string
	Stage    string
	File     string
}

// Qualified returns the three-part stage identifier without the file part.
func (p StagePath) Qualified() string {
	return fmt.Sprintf("%s.%s.%s", p.Database, p.Schema, p.Stage)
}

func (p StagePath) String() string {
	return fmt.Sprintf("@%s/%s", p.Qualified(), p.File)
}

// SemanticModelRef identifies where one tool's semantic model comes from.
// Exactly one of View or Stage is meaningful, selected by Location.
type SemanticModelRef struct {
	Location ModelLocation
	View     string // fully-qualified semantic view name (LocationView)
	Stage    StagePath
}

func (r SemanticModelRef) String() string {
	if r.Location == LocationStage {
		return r.Stage.String()
	}
	return r.View
}

// Tool is one declared capability of an agent. Tools are immutable once
// parsed and are discarded after their grants have been accumulated.
type Tool struct {
	Name        string
	Type        string // raw type string from the spec
	Kind        ToolKind
	Description string

	// Database and Schema hold the tool's location context, taken from the
	// resource path when it is fully qualified and from the description
	// otherwise. Either may be empty.
	Database string
	Schema   string

	SemanticModel *SemanticModelRef // KindAnalyst
	SearchService string            // KindSearch, fully qualified
	Procedure     string            // KindGeneric, fully qualified, may carry an argument signature
	Warehouse     string            // from execution_environment, may be empty
}

// Warning records a tool or model that was skipped or degraded during
// parsing or resolution, with enough context to surface in a UI.
type Warning struct {
	Tool    string
	Ref     string
	Message string
}

func (w Warning) String() string {
	switch {
	case w.Tool != "" && w.Ref != "":
		return fmt.Sprintf("tool %s (%s): %s", w.Tool, w.Ref, w.Message)
	case w.Tool != "":
		return fmt.Sprintf("tool %s: %s", w.Tool, w.Message)
	default:
		return w.Message
	}
}

// ParseResult carries the tools extracted from one agent specification plus
// any per-tool warnings recorded along the way.
type ParseResult struct {
	Tools    []Tool
	Warnings []Warning
}
