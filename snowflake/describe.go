package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/logging"
)

// Querier is the subset of *sql.DB the metadata queries need.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DescribeAgent runs DESCRIBE AGENT and returns the raw agent_spec JSON.
// Column order in DESCRIBE output is not contractual, so the value is
// located by column name.
func DescribeAgent(ctx context.Context, db Querier, database, schema, agent string) ([]byte, error) {
	logger := logging.GetLogger()
	fqn := fmt.Sprintf("%s.%s.%s", database, schema, agent)

	rows, err := db.QueryContext(ctx, fmt.Sprintf("DESCRIBE AGENT %s", fqn))
	if err != nil {
		return nil, fmt.Errorf("DESCRIBE AGENT %s: %w", fqn, err)
	}
	defer rows.Close()

	spec, err := columnValue(rows, "agent_spec")
	if err != nil {
		return nil, fmt.Errorf("reading agent_spec for %s: %w", fqn, err)
	}
	logger.Debug("fetched agent spec", "agent", fqn, "bytes", len(spec))
	return []byte(spec), nil
}

// columnValue scans the first row and returns the named column's value.
func columnValue(rows *sql.Rows, name string) (string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("reading columns: %w", err)
	}
	idx := -1
	for i, col := range cols {
		if strings.EqualFold(col, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("column %s not found in result", name)
	}

	raw := make([]sql.NullString, len(cols))
	vals := make([]any, len(cols))
	for i := range raw {
		vals[i] = &raw[i]
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", errors.New("empty result")
	}
	if err := rows.Scan(vals...); err != nil {
		return "", fmt.Errorf("scanning row: %w", err)
	}
	if !raw[idx].Valid {
		return "", fmt.Errorf("column %s is NULL", name)
	}
	return raw[idx].String, nil
}
