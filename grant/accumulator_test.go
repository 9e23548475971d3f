package grant

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

func analystTool(name, view string) agentspec.Tool {
	parts := strings.SplitN(view, ".", 3)
	return agentspec.Tool{
		Name: name, Kind: agentspec.KindAnalyst,
		Database: parts[0], Schema: parts[1],
		SemanticModel: &agentspec.SemanticModelRef{Location: agentspec.LocationView, View: view},
	}
}

func searchTool(name, svc string) agentspec.Tool {
	return agentspec.Tool{Name: name, Kind: agentspec.KindSearch, SearchService: svc}
}

func stageTool(name string, sp agentspec.StagePath) agentspec.Tool {
	return agentspec.Tool{
		Name: name, Kind: agentspec.KindAnalyst,
		SemanticModel: &agentspec.SemanticModelRef{Location: agentspec.LocationStage, Stage: sp},
	}
}

func TestAccumulator_IdempotentInserts(t *testing.T) {
	tool := analystTool("SALES_QA", "DB.SCH.SALES_VIEW")
	res := semantic.Result{Tables: []semantic.TableRef{{Database: "DB", Schema: "SCH", Table: "ORDERS"}}}

	once := NewAccumulator()
	once.AddTool(tool)
	once.AddResolvedTables(tool, res)
	single := once.Finalize()

	twice := NewAccumulator()
	twice.AddTool(tool)
	twice.AddTool(tool)
	twice.AddResolvedTables(tool, res)
	twice.AddResolvedTables(tool, res)
	double := twice.Finalize()

	if !reflect.DeepEqual(single, double) {
		t.Errorf("double insertion changed the set:\nonce:  %+v\ntwice: %+v", single, double)
	}
}

func TestAccumulator_OrderIndependent(t *testing.T) {
	tools := []agentspec.Tool{
		analystTool("A", "DB1.S1.V1"),
		searchTool("B", "DB2.S2.SVC"),
		{Name: "C", Kind: agentspec.KindGeneric, Procedure: "DB3.S3.PROC(VARCHAR)", Database: "DB3", Schema: "S3", Warehouse: "ETL_WH"},
	}
	results := map[string]semantic.Result{
		"A": {Tables: []semantic.TableRef{
			{Database: "DB1", Schema: "S1", Table: "T1"},
			{Database: "DB9", Schema: "S9", Table: "T9"},
		}},
	}

	build := func(order []int) PermissionSet {
		acc := NewAccumulator()
		acc.AddAgent("AGENTS", "PUBLIC")
		for _, i := range order {
			acc.AddTool(tools[i])
			if res, ok := results[tools[i].Name]; ok {
				acc.AddResolvedTables(tools[i], res)
			}
		}
		return acc.Finalize()
	}

	want := build([]int{0, 1, 2})
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		order := rng.Perm(len(tools))
		if got := build(order); !reflect.DeepEqual(got, want) {
			t.Fatalf("order %v produced a different set:\ngot:  %+v\nwant: %+v", order, got, want)
		}
	}
}

func TestAccumulator_ClosureInvariant(t *testing.T) {
	sp := agentspec.StagePath{Database: "ML", Schema: "MODELS", Stage: "SEMANTIC", File: "m.yaml"}
	tool := stageTool("REV_QA", sp)

	acc := NewAccumulator()
	acc.AddAgent("AGENTS", "PUBLIC")
	acc.AddTool(analystTool("A", "DB1.S1.V1"))
	acc.AddTool(searchTool("B", "DB2.S2.SVC"))
	acc.AddTool(tool)
	acc.AddResolvedTables(tool, semantic.Result{
		Tables:         []semantic.TableRef{{Database: "DW", Schema: "FACTS", Table: "SALES"}},
		SearchServices: []string{"DB4.S4.EMBEDDED_SVC"},
	})
	set := acc.Finalize()

	dbs := map[string]bool{}
	for _, d := range set.Databases {
		dbs[strings.ToUpper(d)] = true
	}
	schemas := map[string]bool{}
	for _, s := range set.Schemas {
		schemas[strings.ToUpper(s.Qualified())] = true
	}

	requireClosure := func(db, schema string) {
		t.Helper()
		if !dbs[strings.ToUpper(db)] {
			t.Errorf("database %s missing from closure", db)
		}
		if !schemas[strings.ToUpper(db+"."+schema)] {
			t.Errorf("schema %s.%s missing from closure", db, schema)
		}
	}

	for _, v := range set.Views {
		parts := strings.SplitN(v, ".", 3)
		requireClosure(parts[0], parts[1])
	}
	for _, tr := range set.Tables {
		requireClosure(tr.Database, tr.Schema)
	}
	for _, s := range set.SearchServices {
		parts := strings.SplitN(s, ".", 3)
		requireClosure(parts[0], parts[1])
	}
	for _, s := range set.Stages {
		parts := strings.SplitN(s, ".", 3)
		requireClosure(parts[0], parts[1])
	}
	requireClosure("AGENTS", "PUBLIC")
}

func TestAccumulator_StageReadOnlyForStageModels(t *testing.T) {
	viewTool := analystTool("A", "DB.SCH.V")
	acc := NewAccumulator()
	acc.AddTool(viewTool)
	acc.AddResolvedTables(viewTool, semantic.Result{Tables: []semantic.TableRef{{Database: "DB", Schema: "SCH", Table: "T"}}})
	if set := acc.Finalize(); len(set.Stages) != 0 {
		t.Errorf("view-backed model produced stage grants: %v", set.Stages)
	}

	sp := agentspec.StagePath{Database: "ML", Schema: "MODELS", Stage: "SEM", File: "m.yaml"}
	tool := stageTool("B", sp)
	acc2 := NewAccumulator()
	acc2.AddTool(tool)
	acc2.AddResolvedTables(tool, semantic.Result{Tables: []semantic.TableRef{{Database: "DW", Schema: "F", Table: "T"}}})
	set := acc2.Finalize()
	if len(set.Stages) != 1 || set.Stages[0] != "ML.MODELS.SEM" {
		t.Errorf("stages = %v, want [ML.MODELS.SEM]", set.Stages)
	}
}

func TestAccumulator_PanicsAfterFinalize(t *testing.T) {
	acc := NewAccumulator()
	acc.Finalize()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on reuse after Finalize")
		}
	}()
	acc.AddAgent("DB", "SCH")
}
