package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/logging"
)

// Execer extends Querier with statement execution, needed for the stage
// file scratch-table dance.
type Execer interface {
	Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReadSemanticViewYAML returns the YAML definition of a semantic view.
func ReadSemanticViewYAML(ctx context.Context, db Querier, view string) (string, error) {
	query := fmt.Sprintf("SELECT SYSTEM$READ_YAML_FROM_SEMANTIC_VIEW('%s') AS yaml_content",
		strings.ReplaceAll(view, "'", "''"))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("reading semantic view %s: %w", view, err)
	}
	defer rows.Close()

	content, err := columnValue(rows, "yaml_content")
	if err != nil {
		return "", fmt.Errorf("reading semantic view %s: %w", view, err)
	}
	return content, nil
}

// ReadStageFile returns the content of a YAML file on a stage. There is no
// direct file-read SQL primitive, so the file is copied line by line into a
// scratch table with an autoincrement column and reassembled with LISTAGG
// ordered by it. The scratch table is dropped on the way out.
func ReadStageFile(ctx context.Context, db Execer, sp agentspec.StagePath) (string, error) {
	logger := logging.GetLogger()

	// Confirm the file exists before creating scratch state.
	listQuery := fmt.Sprintf("LIST @%s/%s", sp.Qualified(), sp.File)
	rows, err := db.QueryContext(ctx, listQuery)
	if err != nil {
		return "", fmt.Errorf("listing stage file %s: %w", sp, err)
	}
	found := rows.Next()
	listErr := rows.Err()
	rows.Close()
	if listErr != nil {
		return "", fmt.Errorf("listing stage file %s: %w", sp, listErr)
	}
	if !found {
		return "", fmt.Errorf("stage file %s not found", sp)
	}

	table := "YAML_SCRATCH_" + strings.ReplaceAll(uuid.NewString(), "-", "_")
	create := fmt.Sprintf(`CREATE TEMPORARY TABLE %s (
    row_num INTEGER AUTOINCREMENT,
    line_content STRING
)`, table)
	if _, err := db.ExecContext(ctx, create); err != nil {
		return "", fmt.Errorf("creating scratch table for %s: %w", sp, err)
	}
	defer func() {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			logger.Warn("dropping scratch table failed", "table", table, "error", err)
		}
	}()

	copyStmt := fmt.Sprintf(`COPY INTO %s (line_content)
FROM @%s/%s
FILE_FORMAT = (TYPE = 'CSV' FIELD_DELIMITER = NONE FIELD_OPTIONALLY_ENCLOSED_BY = NONE)
ON_ERROR = 'CONTINUE'`, table, sp.Qualified(), sp.File)
	if _, err := db.ExecContext(ctx, copyStmt); err != nil {
		return "", fmt.Errorf("copying stage file %s: %w", sp, err)
	}

	selectStmt := fmt.Sprintf(`SELECT LISTAGG(line_content, '\n') WITHIN GROUP (ORDER BY row_num) AS file_content
FROM %s
WHERE line_content IS NOT NULL`, table)
	resultRows, err := db.QueryContext(ctx, selectStmt)
	if err != nil {
		return "", fmt.Errorf("reassembling stage file %s: %w", sp, err)
	}
	defer resultRows.Close()

	content, err := columnValue(resultRows, "file_content")
	if err != nil {
		return "", fmt.Errorf("reassembling stage file %s: %w", sp, err)
	}
	logger.Debug("read stage file", "path", sp.String(), "bytes", len(content))
	return content, nil
}
