package grant

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

func sampleSet(t *testing.T) PermissionSet {
	t.Helper()
	sales := analystTool("SALES_QA", "DB.SCH.SALES_VIEW")
	doc := searchTool("DOC_SEARCH", "DB.SCH.DOC_SEARCH_SVC")

	acc := NewAccumulator()
	acc.AddTool(sales)
	acc.AddResolvedTables(sales, semantic.Result{
		Tables: []semantic.TableRef{{Database: "DB", Schema: "SCH", Table: "ORDERS"}},
	})
	acc.AddTool(doc)
	return acc.Finalize()
}

func TestRender_CategoryOrder(t *testing.T) {
	stmts, err := Render(sampleSet(t), "AGENT_ROLE", "AGENTS.PUBLIC.SALES_AGENT", "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantOrder := []string{
		"CREATE ROLE IF NOT EXISTS AGENT_ROLE;",
		"GRANT USAGE ON AGENT AGENTS.PUBLIC.SALES_AGENT TO ROLE AGENT_ROLE;",
		"GRANT USAGE ON DATABASE DB TO ROLE AGENT_ROLE;",
		"GRANT USAGE ON SCHEMA DB.SCH TO ROLE AGENT_ROLE;",
		"GRANT SELECT ON VIEW DB.SCH.SALES_VIEW TO ROLE AGENT_ROLE;",
		"GRANT SELECT ON TABLE DB.SCH.ORDERS TO ROLE AGENT_ROLE;",
		"GRANT USAGE ON CORTEX SEARCH SERVICE DB.SCH.DOC_SEARCH_SVC TO ROLE AGENT_ROLE;",
	}
	if len(stmts) != len(wantOrder) {
		t.Fatalf("got %d statements, want %d:\n%s", len(stmts), len(wantOrder), strings.Join(stmts, "\n"))
	}
	for i, want := range wantOrder {
		if stmts[i] != want {
			t.Errorf("statement %d:\ngot:  %s\nwant: %s", i, stmts[i], want)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	set := sampleSet(t)
	first, err := Render(set, "R", "A.P.AG", "WH")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := Render(set, "R", "A.P.AG", "WH")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Join(first, "\n") != strings.Join(second, "\n") {
		t.Error("two renders of the same set differ")
	}
}

func TestRender_SessionWarehouseDeduped(t *testing.T) {
	tool := agentspec.Tool{Name: "T", Kind: agentspec.KindGeneric, Warehouse: "ETL_WH"}
	acc := NewAccumulator()
	acc.AddTool(tool)
	set := acc.Finalize()

	stmts, err := Render(set, "R", "A.P.AG", "etl_wh")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	count := 0
	for _, s := range stmts {
		if strings.Contains(s, "ON WAREHOUSE") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d warehouse grants, want 1 (session warehouse matches tool warehouse):\n%s",
			count, strings.Join(stmts, "\n"))
	}
}

func TestRender_MissingInputs(t *testing.T) {
	var rerr *RenderError
	if _, err := Render(PermissionSet{}, "", "A.P.AG", ""); !errors.As(err, &rerr) {
		t.Errorf("empty role: got %v, want RenderError", err)
	}
	if _, err := Render(PermissionSet{}, "R", "", ""); !errors.As(err, &rerr) {
		t.Errorf("empty agent: got %v, want RenderError", err)
	}
}

func TestQuoteIdent(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"SALES_VIEW", "SALES_VIEW"},
		{"lower_case", "lower_case"},
		{"WITH$DOLLAR", "WITH$DOLLAR"},
		{"my view", `"my view"`},
		{"2024_DATA", `"2024_DATA"`},
		{"ORDER", `"ORDER"`},
		{"table", `"table"`},
		{`has"quote`, `"has""quote"`},
	}
	for _, c := range cases {
		if got := QuoteIdent(c.in); got != c.want {
			t.Errorf("QuoteIdent(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestQualifyParts_ProcedureSignature(t *testing.T) {
	got := qualifyParts("OPS.JOBS.REFRESH_SALES(VARCHAR, NUMBER)")
	want := "OPS.JOBS.REFRESH_SALES(VARCHAR, NUMBER)"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	got = qualifyParts("OPS.my jobs.RUN(VARCHAR)")
	want = `OPS."my jobs".RUN(VARCHAR)`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestScript_Assembly(t *testing.T) {
	set := sampleSet(t)
	out, err := Script(set, ScriptParams{
		Role:            "SALES_AGENT_ROLE",
		AgentFQN:        "AGENTS.PUBLIC.SALES_AGENT",
		GeneratedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		GrantToSysadmin: true,
	})
	if err != nil {
		t.Fatalf("Script: %v", err)
	}

	for _, want := range []string{
		"USE ROLE SECURITYADMIN;",
		"-- Generated on 2026-08-30 12:00:00",
		"CREATE ROLE IF NOT EXISTS SALES_AGENT_ROLE;",
		"GRANT ROLE SALES_AGENT_ROLE TO ROLE SYSADMIN;",
		"SELECT 'Setup complete for role SALES_AGENT_ROLE' AS status;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("script missing %q:\n%s", want, out)
		}
	}

	again, err := Script(set, ScriptParams{
		Role:            "SALES_AGENT_ROLE",
		AgentFQN:        "AGENTS.PUBLIC.SALES_AGENT",
		GeneratedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		GrantToSysadmin: true,
	})
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	if out != again {
		t.Error("two assemblies of the same inputs differ")
	}
}
