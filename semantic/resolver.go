package semantic

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
)

// Resolve parses one semantic model into its deduplicated set of base table
// references. The YAML text is obtained through the caller-supplied
// provider. Two shapes are recognized explicitly, the semantic model file
// shape (semantic_model.tables) and the semantic view shape (top-level
// tables with base_table entries), tried in that order, followed by a
// recursive scan that also covers nested fact/dimension groupings and
// embedded Cortex Search Service references.
func Resolve(ref agentspec.SemanticModelRef, provider ContentProvider) (Result, error) {
	if provider == nil {
		return Result{}, fmt.Errorf("semantic: nil content provider")
	}
	text, err := provider(ref)
	if err != nil {
		return Result{}, fmt.Errorf("fetching semantic model %s: %w", ref, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return Result{}, &ParseError{Ref: ref.String(), Err: err}
	}

	db, schema := refContext(ref)
	c := &collector{db: db, schema: schema, seen: map[string]bool{}, seenSvc: map[string]bool{}}

	if !c.fromSemanticModel(doc) {
		c.fromSemanticView(doc)
	}
	c.scan(doc)

	return Result{Tables: c.tables, SearchServices: c.services}, nil
}

// refContext is the database/schema the model itself lives in, used to
// qualify table names that carry fewer than three parts.
func refContext(ref agentspec.SemanticModelRef) (db, schema string) {
	if ref.Location == agentspec.LocationStage {
		return ref.Stage.Database, ref.Stage.Schema
	}
	parts := strings.Split(ref.View, ".")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return "", ""
}

type collector struct {
	db, schema string

	seen   map[string]bool
	tables []TableRef

	seenSvc  map[string]bool
	services []string
}

// add qualifies a table reference from context and inserts it unless the
// identical table (case-insensitive) was already found in this model.
func (c *collector) add(t TableRef) {
	if t.Table == "" {
		return
	}
	if t.Database == "" {
		t.Database = c.db
	}
	if t.Schema == "" {
		t.Schema = c.schema
	}
	if t.Database == "" || t.Schema == "" {
		return // unresolvable even with context, nothing safe to grant
	}
	if c.seen[t.Key()] {
		return
	}
	c.seen[t.Key()] = true
	c.tables = append(c.tables, t)
}

func (c *collector) addService(fq string) {
	key := strings.ToLower(fq)
	if fq == "" || c.seenSvc[key] {
		return
	}
	c.seenSvc[key] = true
	c.services = append(c.services, fq)
}

// fromSemanticModel matches the semantic model file shape:
//
//	semantic_model:
//	  tables:
//	    - database: DB
//	      schema: SCH
//	      table: ORDERS
func (c *collector) fromSemanticModel(doc map[string]any) bool {
	sm, ok := doc["semantic_model"].(map[string]any)
	if !ok {
		return false
	}
	list, _ := sm["tables"].([]any)
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c.add(tableFromEntry(entry))
	}
	return true
}

// fromSemanticView matches the semantic view shape:
//
//	tables:
//	  - name: orders
//	    base_table:
//	      database: DB
//	      schema: SCH
//	      table: ORDERS
//
// base_table may also be a dotted string.
func (c *collector) fromSemanticView(doc map[string]any) bool {
	list, ok := doc["tables"].([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		switch bt := entry["base_table"].(type) {
		case map[string]any:
			c.add(tableFromEntry(bt))
		case string:
			c.add(c.splitTable(bt))
		}
	}
	return true
}

// tableKeys are the mapping keys whose values describe a physical table.
var tableKeys = map[string]bool{
	"table":        true,
	"base_table":   true,
	"source_table": true,
}

// scan walks the whole document for table mappings and Cortex Search
// Service references, wherever the model nests them.
func (c *collector) scan(v any) {
	switch node := v.(type) {
	case map[string]any:
		for k, val := range node {
			key := strings.ToLower(k)
			if m, ok := val.(map[string]any); ok {
				if tableKeys[key] {
					c.add(tableFromEntry(m))
					continue
				}
				if key == "cortex_search_service" {
					c.addService(serviceFromEntry(m))
					continue
				}
			}
			c.scan(val)
		}
	case []any:
		for _, item := range node {
			c.scan(item)
		}
	}
}

func tableFromEntry(entry map[string]any) TableRef {
	return TableRef{
		Database: getStr(entry, "database", "db"),
		Schema:   getStr(entry, "schema", "schema_name"),
		Table:    getStr(entry, "table", "table_name", "name"),
	}
}

func serviceFromEntry(entry map[string]any) string {
	db := getStr(entry, "database", "db")
	schema := getStr(entry, "schema", "schema_name")
	svc := getStr(entry, "service", "service_name", "name")
	if db == "" || schema == "" || svc == "" {
		return ""
	}
	return db + "." + schema + "." + svc
}

// splitTable interprets a dotted table string, qualifying short names from
// the model's own context.
func (c *collector) splitTable(s string) TableRef {
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 3:
		return TableRef{Database: parts[0], Schema: parts[1], Table: parts[2]}
	case 2:
		return TableRef{Database: c.db, Schema: parts[0], Table: parts[1]}
	case 1:
		return TableRef{Database: c.db, Schema: c.schema, Table: parts[0]}
	}
	return TableRef{}
}

func getStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
