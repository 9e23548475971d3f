// Package agentspec parses Cortex Agent tool specifications into typed tool
// records. Parsing is a pure transformation: the raw JSON text is handed in
// by the caller (normally the agent_spec column of DESCRIBE AGENT) and no
// I/O happens here.
package agentspec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// kindByType maps the spec's declared type strings onto ToolKind. Anything
// not listed here degrades to KindGeneric.
var kindByType = map[string]ToolKind{
	"cortex_analyst_text_to_sql": KindAnalyst,
	"cortex_search":              KindSearch,
	"generic":                    KindGeneric,
}

// Some tools carry their location only in prose, e.g. "Database: SALES".
var (
	dbFromDesc     = regexp.MustCompile(`Database: (\w+)`)
	schemaFromDesc = regexp.MustCompile(`Schema: (\w+)`)
)

type rawSpec struct {
	Tools         []json.RawMessage          `json:"tools"`
	ToolResources map[string]json.RawMessage `json:"tool_resources"`
}

type rawTool struct {
	ToolSpec rawToolSpec `json:"tool_spec"`
}

type rawToolSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// rawResources covers every key the resource binding block is known to use;
// which ones are populated depends on the tool type.
type rawResources struct {
	Identifier           string      `json:"identifier"`
	SemanticView         string      `json:"semantic_view"`
	SearchService        string      `json:"search_service"`
	Name                 string      `json:"name"`
	SemanticModelFile    string      `json:"semantic_model_file"`
	ExecutionEnvironment *rawExecEnv `json:"execution_environment"`
}

type rawExecEnv struct {
	Warehouse string `json:"warehouse"`
}

// Parse extracts typed tool records from a raw agent specification document.
// It fails with *MalformedSpecError only when the top-level document cannot
// be decoded or lacks the tools array; individual malformed tool entries are
// skipped with a recorded warning so one bad tool never blocks the rest.
func Parse(raw []byte) (*ParseResult, error) {
	var doc rawSpec
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedSpecError{Reason: "decoding top-level document", Err: err}
	}
	if doc.Tools == nil {
		return nil, &MalformedSpecError{Reason: `missing "tools" array`}
	}

	res := &ParseResult{}
	for i, entry := range doc.Tools {
		parseTool(i, entry, doc.ToolResources, res)
	}
	return res, nil
}

func parseTool(idx int, entry json.RawMessage, resources map[string]json.RawMessage, res *ParseResult) {
	var rt rawTool
	if err := json.Unmarshal(entry, &rt); err != nil {
		res.warn("", fmt.Sprintf("tools[%d]", idx), fmt.Sprintf("skipping malformed tool entry: %v", err))
		return
	}
	name := strings.TrimSpace(rt.ToolSpec.Name)
	if name == "" {
		res.warn("", fmt.Sprintf("tools[%d]", idx), "skipping tool entry with no tool_spec.name")
		return
	}

	kind, known := kindByType[rt.ToolSpec.Type]
	if !known {
		kind = KindGeneric
		res.warn(name, "", fmt.Sprintf("unknown tool type %q, treating as generic", rt.ToolSpec.Type))
	}

	var rr rawResources
	if block, ok := resources[name]; ok {
		if err := json.Unmarshal(block, &rr); err != nil {
			res.warn(name, "", fmt.Sprintf("skipping tool with malformed resource block: %v", err))
			return
		}
	}

	tool := Tool{
		Name:        name,
		Type:        rt.ToolSpec.Type,
		Kind:        kind,
		Description: rt.ToolSpec.Description,
	}
	if rr.ExecutionEnvironment != nil {
		tool.Warehouse = strings.TrimSpace(rr.ExecutionEnvironment.Warehouse)
	}

	// Location context: the description wins, the resource path fills gaps.
	resourcePath := firstNonEmpty(rr.Identifier, rr.SemanticView, rr.SearchService, rr.Name, rr.SemanticModelFile)
	tool.Database, tool.Schema = locationContext(rt.ToolSpec.Description, resourcePath)

	switch kind {
	case KindAnalyst:
		if rr.SemanticModelFile != "" {
			sp, err := ParseStagePath(rr.SemanticModelFile)
			if err != nil {
				res.warn(name, rr.SemanticModelFile, fmt.Sprintf("skipping tool: %v", err))
				return
			}
			tool.SemanticModel = &SemanticModelRef{Location: LocationStage, Stage: sp}
			// Closure for the stage arrives with the resolved tables, not
			// here, so the context must not leak the stage location.
			tool.Database, tool.Schema = matchGroup(dbFromDesc, rt.ToolSpec.Description), matchGroup(schemaFromDesc, rt.ToolSpec.Description)
			break
		}
		view := firstNonEmpty(rr.SemanticView, rr.Identifier, rr.Name)
		if view == "" {
			res.warn(name, "", "skipping analyst tool with no semantic model reference")
			return
		}
		fq := qualifyPath(view, tool.Database, tool.Schema)
		tool.SemanticModel = &SemanticModelRef{Location: LocationView, View: fq}

	case KindSearch:
		svc := firstNonEmpty(rr.SearchService, rr.Identifier, rr.Name)
		if svc == "" {
			res.warn(name, "", "skipping search tool with no search service reference")
			return
		}
		tool.SearchService = qualifyPath(svc, tool.Database, tool.Schema)

	case KindGeneric:
		// The name key carries the procedure with its argument signature;
		// the identifier is the fallback. Zero references is legal.
		if rr.Name != "" {
			tool.Procedure = qualifyPath(rr.Name, tool.Database, tool.Schema)
		} else if rr.Identifier != "" {
			tool.Procedure = qualifyPath(rr.Identifier, tool.Database, tool.Schema)
		}
	}

	res.Tools = append(res.Tools, tool)
}

// ParseStagePath parses a stage file reference of the form
// @DATABASE.SCHEMA.STAGE/path/to/file.yaml.
func ParseStagePath(s string) (StagePath, error) {
	if !strings.HasPrefix(s, "@") {
		return StagePath{}, fmt.Errorf("stage path %q must start with @", s)
	}
	trimmed := s[1:]
	slash := strings.Index(trimmed, "/")
	if slash < 0 {
		return StagePath{}, fmt.Errorf("stage path %q has no file part", s)
	}
	ident, file := trimmed[:slash], trimmed[slash+1:]
	parts := strings.Split(ident, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" || file == "" {
		return StagePath{}, fmt.Errorf("stage path %q is not of the form @DB.SCHEMA.STAGE/file", s)
	}
	return StagePath{Database: parts[0], Schema: parts[1], Stage: parts[2], File: file}, nil
}

// locationContext derives a database/schema context from the description
// patterns first, falling back to the leading parts of the resource path.
func locationContext(description, resourcePath string) (db, schema string) {
	db = matchGroup(dbFromDesc, description)
	schema = matchGroup(schemaFromDesc, description)

	parts := strings.Split(strings.TrimPrefix(resourcePath, "@"), ".")
	if db == "" && len(parts) >= 2 {
		db = parts[0]
	}
	if schema == "" && len(parts) >= 2 {
		schema = parts[1]
	}
	return db, schema
}

// qualifyPath upgrades a one- or two-part name to three parts using the
// given context. Paths that are already fully qualified, or that cannot be
// completed from context, pass through unchanged.
func qualifyPath(path, db, schema string) string {
	switch parts := strings.Split(path, "."); {
	case path == "" || len(parts) >= 3:
		return path
	case len(parts) == 2 && db != "":
		return db + "." + path
	case len(parts) == 1 && db != "" && schema != "":
		return db + "." + schema + "." + path
	}
	return path
}

func matchGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *ParseResult) warn(tool, ref, msg string) {
	r.Warnings = append(r.Warnings, Warning{Tool: tool, Ref: ref, Message: msg})
}
