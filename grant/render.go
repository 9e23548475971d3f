package grant

import (
	"fmt"
	"strings"
)

// RenderError reports missing naming inputs without which no meaningful
// script can be produced. Everything else reaching the renderer is
// well-formed by construction.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string { return "rendering grant script: " + e.Reason }

// Render converts a PermissionSet into the ordered list of SQL statements
// granting the named role exactly what was discovered. The category order is
// fixed and entries within a category are pre-sorted by the accumulator, so
// rendering the same set twice is byte-identical.
func Render(set PermissionSet, role, agentFQN, warehouse string) ([]string, error) {
	secs, err := sections(set, role, agentFQN, warehouse)
	if err != nil {
		return nil, err
	}
	var stmts []string
	for _, s := range secs {
		stmts = append(stmts, s.stmts...)
	}
	return stmts, nil
}

// section is one renderer category: its statements plus the comment the
// full-script assembly prints above them.
type section struct {
	comment string
	stmts   []string
}

func sections(set PermissionSet, role, agentFQN, warehouse string) ([]section, error) {
	if role == "" {
		return nil, &RenderError{Reason: "role name is empty"}
	}
	if agentFQN == "" {
		return nil, &RenderError{Reason: "agent name is empty"}
	}

	quotedRole := QuoteIdent(role)
	grantTo := fmt.Sprintf(" TO ROLE %s;", quotedRole)

	var secs []section
	add := func(comment string, stmts []string) {
		if len(stmts) > 0 {
			secs = append(secs, section{comment: comment, stmts: stmts})
		}
	}

	add("Dedicated role for operating the agent.", []string{
		fmt.Sprintf("CREATE ROLE IF NOT EXISTS %s;", quotedRole),
	})
	add("Core permission on the agent object itself.", []string{
		fmt.Sprintf("GRANT USAGE ON AGENT %s%s", qualifyParts(agentFQN), grantTo),
	})

	var dbs []string
	for _, db := range set.Databases {
		dbs = append(dbs, fmt.Sprintf("GRANT USAGE ON DATABASE %s%s", QuoteIdent(db), grantTo))
	}
	add("Database USAGE for every location the agent's tools touch.", dbs)

	var schemas []string
	for _, s := range set.Schemas {
		schemas = append(schemas, fmt.Sprintf("GRANT USAGE ON SCHEMA %s.%s%s", QuoteIdent(s.Database), QuoteIdent(s.Schema), grantTo))
	}
	add("Schema USAGE for every location the agent's tools touch.", schemas)

	var views []string
	for _, v := range set.Views {
		views = append(views, fmt.Sprintf("GRANT SELECT ON VIEW %s%s", qualifyParts(v), grantTo))
	}
	add("Semantic views behind Cortex Analyst tools.", views)

	var tables []string
	for _, t := range set.Tables {
		tables = append(tables, fmt.Sprintf("GRANT SELECT ON TABLE %s.%s.%s%s",
			QuoteIdent(t.Database), QuoteIdent(t.Schema), QuoteIdent(t.Table), grantTo))
	}
	add("Base tables referenced by the semantic models.", tables)

	var services []string
	for _, s := range set.SearchServices {
		services = append(services, fmt.Sprintf("GRANT USAGE ON CORTEX SEARCH SERVICE %s%s", qualifyParts(s), grantTo))
	}
	add("Cortex Search Services.", services)

	var procs []string
	for _, p := range set.Procedures {
		procs = append(procs, fmt.Sprintf("GRANT USAGE ON PROCEDURE %s%s", qualifyParts(p), grantTo))
	}
	add("Procedures behind generic tools.", procs)

	var stages []string
	for _, s := range set.Stages {
		stages = append(stages, fmt.Sprintf("GRANT READ ON STAGE %s%s", qualifyParts(s), grantTo))
	}
	add("Stages holding semantic model files.", stages)

	var warehouses []string
	for _, w := range set.Warehouses {
		warehouses = append(warehouses, fmt.Sprintf("GRANT USAGE ON WAREHOUSE %s%s", QuoteIdent(w), grantTo))
	}
	if warehouse != "" && !containsFold(set.Warehouses, warehouse) {
		warehouses = append(warehouses, fmt.Sprintf("GRANT USAGE ON WAREHOUSE %s%s", QuoteIdent(warehouse), grantTo))
	}
	add("Warehouse USAGE for tool execution and the user's session.", warehouses)

	return secs, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
