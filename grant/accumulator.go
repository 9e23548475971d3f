package grant

import (
	"sort"
	"strings"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

// Accumulator builds a PermissionSet incrementally. Inserts are idempotent
// and commutative, so feeding the same tools and table sets in any order
// produces the same finalized set. One accumulator serves exactly one
// script-generation run; using it after Finalize panics.
type Accumulator struct {
	databases      map[string]string // upper key -> first-seen display form
	schemas        map[string]SchemaRef
	views          map[string]string
	tables         map[string]semantic.TableRef
	searchServices map[string]string
	procedures     map[string]string
	stages         map[string]string
	warehouses     map[string]string

	finalized bool
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		databases:      map[string]string{},
		schemas:        map[string]SchemaRef{},
		views:          map[string]string{},
		tables:         map[string]semantic.TableRef{},
		searchServices: map[string]string{},
		procedures:     map[string]string{},
		stages:         map[string]string{},
		warehouses:     map[string]string{},
	}
}

// AddAgent records the agent's own database and schema, which always need
// USAGE for the role to reach the agent object at all.
func (a *Accumulator) AddAgent(database, schema string) {
	a.checkOpen()
	a.addClosure(database, schema)
}

// AddTool inserts the tool's bound resource into the matching category,
// together with its database/schema closure.
func (a *Accumulator) AddTool(t agentspec.Tool) {
	a.checkOpen()
	switch t.Kind {
	case agentspec.KindAnalyst:
		if t.SemanticModel != nil && t.SemanticModel.Location == agentspec.LocationView {
			a.addObject(a.views, t.SemanticModel.View, t.Database, t.Schema)
		}
		// Stage-backed models contribute nothing here: their stage READ and
		// closure arrive with the resolved tables.
	case agentspec.KindSearch:
		a.addObject(a.searchServices, t.SearchService, t.Database, t.Schema)
	case agentspec.KindGeneric:
		a.addObject(a.procedures, t.Procedure, t.Database, t.Schema)
	}
	if t.Warehouse != "" {
		key := strings.ToUpper(t.Warehouse)
		if _, ok := a.warehouses[key]; !ok {
			a.warehouses[key] = t.Warehouse
		}
	}
}

// AddResolvedTables ingests one tool's resolved semantic model: every base
// table (with closure), any search services discovered inside the model
// YAML, and, only for stage-backed models, READ on the stage itself.
func (a *Accumulator) AddResolvedTables(t agentspec.Tool, res semantic.Result) {
	a.checkOpen()
	for _, tr := range res.Tables {
		key := strings.ToUpper(tr.Qualified())
		if _, ok := a.tables[key]; !ok {
			a.tables[key] = tr
		}
		a.addClosure(tr.Database, tr.Schema)
	}
	for _, svc := range res.SearchServices {
		a.addObject(a.searchServices, svc, "", "")
	}
	if t.SemanticModel != nil && t.SemanticModel.Location == agentspec.LocationStage {
		sp := t.SemanticModel.Stage
		a.addObject(a.stages, sp.Qualified(), sp.Database, sp.Schema)
	}
}

// Finalize seals the accumulator and returns the sorted, immutable snapshot.
func (a *Accumulator) Finalize() PermissionSet {
	a.checkOpen()
	a.finalized = true

	set := PermissionSet{
		Databases:      sortedValues(a.databases),
		Views:          sortedValues(a.views),
		SearchServices: sortedValues(a.searchServices),
		Procedures:     sortedValues(a.procedures),
		Stages:         sortedValues(a.stages),
		Warehouses:     sortedValues(a.warehouses),
	}

	for _, s := range a.schemas {
		set.Schemas = append(set.Schemas, s)
	}
	sort.Slice(set.Schemas, func(i, j int) bool {
		return strings.ToUpper(set.Schemas[i].Qualified()) < strings.ToUpper(set.Schemas[j].Qualified())
	})

	for _, t := range a.tables {
		set.Tables = append(set.Tables, t)
	}
	sort.Slice(set.Tables, func(i, j int) bool {
		return strings.ToUpper(set.Tables[i].Qualified()) < strings.ToUpper(set.Tables[j].Qualified())
	})

	return set
}

// addObject inserts a fully-qualified object into the given category and
// maintains the database/schema closure. The closure prefers the object's
// own leading path parts; the fallback context covers short names.
func (a *Accumulator) addObject(category map[string]string, fq, fallbackDB, fallbackSchema string) {
	if fq == "" {
		return
	}
	key := strings.ToUpper(fq)
	if _, ok := category[key]; !ok {
		category[key] = fq
	}

	db, schema := fallbackDB, fallbackSchema
	if parts := strings.Split(fq, "."); len(parts) >= 3 {
		db, schema = parts[0], parts[1]
	}
	a.addClosure(db, schema)
}

func (a *Accumulator) addClosure(db, schema string) {
	if db == "" {
		return
	}
	dbKey := strings.ToUpper(db)
	if _, ok := a.databases[dbKey]; !ok {
		a.databases[dbKey] = db
	}
	if schema == "" {
		return
	}
	key := dbKey + "." + strings.ToUpper(schema)
	if _, ok := a.schemas[key]; !ok {
		a.schemas[key] = SchemaRef{Database: db, Schema: schema}
	}
}

func (a *Accumulator) checkOpen() {
	if a.finalized {
		panic("grant: accumulator used after Finalize")
	}
}

func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, m[k])
	}
	return vals
}
