// Package semantic resolves semantic model YAML into base table references.
package semantic

import (
	"fmt"
	"strings"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
)

// TableRef is a fully-qualified base table. Two refs are the same table when
// their case-folded triples match; the first-seen casing is what renders.
type TableRef struct {
	Database string
	Schema   string
	Table    string
}

// Key is the case-insensitive identity of the table.
func (t TableRef) Key() string {
	return strings.ToLower(t.Database + "." + t.Schema + "." + t.Table)
}

// Qualified returns the display form of the table.
func (t TableRef) Qualified() string {
	return t.Database + "." + t.Schema + "." + t.Table
}

// Result is everything one semantic model contributes to the permission set.
type Result struct {
	Tables []TableRef
	// SearchServices holds fully-qualified Cortex Search Services referenced
	// from inside the model YAML (verified-query style models embed them).
	SearchServices []string
}

// ContentProvider hands the resolver the raw YAML text for a model
// reference. The caller owns all fetching: the resolver never touches a
// session, a stage, or the network.
type ContentProvider func(ref agentspec.SemanticModelRef) (string, error)

// ParseError reports a semantic model whose content could not be parsed into
// table references. The affected tool is excluded from the permission set;
// generation continues for all other tools.
type ParseError struct {
	Ref string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing semantic model %s: %v", e.Ref, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
