// Package grant accumulates discovered agent dependencies into a canonical
// permission set and renders it as idempotent, deterministically ordered SQL
// grant statements.
package grant

import (
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/semantic"
)

// SchemaRef is a (database, schema) pair requiring USAGE.
type SchemaRef struct {
	Database string
	Schema   string
}

// Qualified returns the display form of the schema.
func (s SchemaRef) Qualified() string { return s.Database + "." + s.Schema }

// PermissionSet is the finalized, deduplicated, categorized set of grants an
// agent needs. Every category is sorted by upper-cased identifier so the set
// renders identically no matter what order things were discovered in, and
// every object's database and schema are guaranteed to appear in Databases
// and Schemas (the accumulator maintains that closure on insert).
//
// A PermissionSet is a snapshot: it is never mutated after Finalize.
type PermissionSet struct {
	Databases      []string             // USAGE
	Schemas        []SchemaRef          // USAGE
	Views          []string             // SELECT, fully qualified
	Tables         []semantic.TableRef  // SELECT
	SearchServices []string             // USAGE, fully qualified
	Procedures     []string             // USAGE, fully qualified, may carry signatures
	Stages         []string             // READ, fully qualified
	Warehouses     []string             // USAGE, per-tool execution warehouses
}

// Empty reports whether nothing beyond the agent itself was discovered.
func (p PermissionSet) Empty() bool {
	return len(p.Databases) == 0 && len(p.Schemas) == 0 && len(p.Views) == 0 &&
		len(p.Tables) == 0 && len(p.SearchServices) == 0 && len(p.Procedures) == 0 &&
		len(p.Stages) == 0 && len(p.Warehouses) == 0
}
