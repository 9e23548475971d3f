package agentspec

import (
	"errors"
	"testing"
)

const sampleSpec = `{
  "models": {"orchestration": "auto"},
  "tools": [
    {"tool_spec": {"name": "SALES_QA", "type": "cortex_analyst_text_to_sql", "description": "Answers sales questions"}},
    {"tool_spec": {"name": "DOC_SEARCH", "type": "cortex_search", "description": "Searches docs"}},
    {"tool_spec": {"name": "REFRESH_PIPELINE", "type": "generic", "description": "Database: OPS Schema: JOBS"}}
  ],
  "tool_resources": {
    "SALES_QA": {"semantic_view": "DB.SCH.SALES_VIEW"},
    "DOC_SEARCH": {"search_service": "DB.SCH.DOC_SEARCH_SVC"},
    "REFRESH_PIPELINE": {"name": "REFRESH_SALES(VARCHAR)", "execution_environment": {"warehouse": "ETL_WH"}}
  }
}`

func TestParse_Sample(t *testing.T) {
	res, err := Parse([]byte(sampleSpec))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if len(res.Tools) != 3 {
		t.Fatalf("got %d tools, want 3", len(res.Tools))
	}

	sales := res.Tools[0]
	if sales.Kind != KindAnalyst {
		t.Errorf("SALES_QA kind = %q, want %q", sales.Kind, KindAnalyst)
	}
	if sales.SemanticModel == nil || sales.SemanticModel.Location != LocationView {
		t.Fatalf("SALES_QA semantic model = %+v, want semantic view ref", sales.SemanticModel)
	}
	if sales.SemanticModel.View != "DB.SCH.SALES_VIEW" {
		t.Errorf("SALES_QA view = %q, want DB.SCH.SALES_VIEW", sales.SemanticModel.View)
	}
	if sales.Database != "DB" || sales.Schema != "SCH" {
		t.Errorf("SALES_QA context = %s.%s, want DB.SCH", sales.Database, sales.Schema)
	}

	search := res.Tools[1]
	if search.Kind != KindSearch || search.SearchService != "DB.SCH.DOC_SEARCH_SVC" {
		t.Errorf("DOC_SEARCH = %+v, want search service DB.SCH.DOC_SEARCH_SVC", search)
	}

	generic := res.Tools[2]
	if generic.Kind != KindGeneric {
		t.Errorf("REFRESH_PIPELINE kind = %q, want %q", generic.Kind, KindGeneric)
	}
	if generic.Procedure != "OPS.JOBS.REFRESH_SALES(VARCHAR)" {
		t.Errorf("procedure = %q, want OPS.JOBS.REFRESH_SALES(VARCHAR)", generic.Procedure)
	}
	if generic.Warehouse != "ETL_WH" {
		t.Errorf("warehouse = %q, want ETL_WH", generic.Warehouse)
	}
}

func TestParse_StageModelFile(t *testing.T) {
	spec := `{
	  "tools": [{"tool_spec": {"name": "REVENUE_QA", "type": "cortex_analyst_text_to_sql"}}],
	  "tool_resources": {"REVENUE_QA": {"semantic_model_file": "@ML.MODELS.SEMANTIC/revenue.yaml"}}
	}`
	res, err := Parse([]byte(spec))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(res.Tools))
	}
	ref := res.Tools[0].SemanticModel
	if ref == nil || ref.Location != LocationStage {
		t.Fatalf("semantic model = %+v, want stage ref", ref)
	}
	want := StagePath{Database: "ML", Schema: "MODELS", Stage: "SEMANTIC", File: "revenue.yaml"}
	if ref.Stage != want {
		t.Errorf("stage = %+v, want %+v", ref.Stage, want)
	}
	// Stage closure arrives only with resolved tables.
	if res.Tools[0].Database != "" || res.Tools[0].Schema != "" {
		t.Errorf("stage tool context = %s.%s, want empty", res.Tools[0].Database, res.Tools[0].Schema)
	}
}

func TestParse_UnknownTypeDegradesToGeneric(t *testing.T) {
	spec := `{"tools": [{"tool_spec": {"name": "MYSTERY", "type": "cortex_future_thing"}}]}`
	res, err := Parse([]byte(spec))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Tools) != 1 || res.Tools[0].Kind != KindGeneric {
		t.Fatalf("tools = %+v, want single generic tool", res.Tools)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
}

func TestParse_MalformedEntrySkipped(t *testing.T) {
	spec := `{"tools": [
	  {"tool_spec": {"name": "GOOD", "type": "cortex_search"}},
	  {"tool_spec": "not an object"}
	], "tool_resources": {"GOOD": {"search_service": "DB.SCH.SVC"}}}`
	res, err := Parse([]byte(spec))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Tools) != 1 || res.Tools[0].Name != "GOOD" {
		t.Fatalf("tools = %+v, want only GOOD", res.Tools)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
}

func TestParse_TopLevelMalformed(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":      `{{{`,
		"missing tools": `{"tool_resources": {}}`,
	} {
		_, err := Parse([]byte(doc))
		var mse *MalformedSpecError
		if !errors.As(err, &mse) {
			t.Errorf("%s: err = %v, want MalformedSpecError", name, err)
		}
	}
}

func TestParse_DescriptionFallbackQualifies(t *testing.T) {
	spec := `{
	  "tools": [{"tool_spec": {"name": "Q", "type": "cortex_analyst_text_to_sql", "description": "Database: SALES Schema: PUBLIC"}}],
	  "tool_resources": {"Q": {"semantic_view": "ORDERS_VIEW"}}
	}`
	res, err := Parse([]byte(spec))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := res.Tools[0].SemanticModel.View; got != "SALES.PUBLIC.ORDERS_VIEW" {
		t.Errorf("view = %q, want SALES.PUBLIC.ORDERS_VIEW", got)
	}
}

func TestParseStagePath(t *testing.T) {
	sp, err := ParseStagePath("@DB.SCH.STAGE/models/rev.yaml")
	if err != nil {
		t.Fatalf("ParseStagePath: %v", err)
	}
	if sp.Qualified() != "DB.SCH.STAGE" || sp.File != "models/rev.yaml" {
		t.Errorf("parsed = %+v", sp)
	}

	for _, bad := range []string{"DB.SCH.STAGE/f.yaml", "@DB.SCH.STAGE", "@DB.SCH/f.yaml", "@DB.SCH.STAGE/"} {
		if _, err := ParseStagePath(bad); err == nil {
			t.Errorf("ParseStagePath(%q): expected error", bad)
		}
	}
}
