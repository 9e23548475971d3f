package grant

import (
	"fmt"
	"strings"
	"time"
)

// ScriptParams names everything the full-script assembly needs beyond the
// permission set. GeneratedAt is passed in rather than read from the clock
// so that assembling the same inputs twice stays byte-identical.
type ScriptParams struct {
	Role      string
	AgentFQN  string
	Warehouse string

	GeneratedAt time.Time
	// GrantToSysadmin adds the optional handover grant letting SYSADMIN
	// manage the new role.
	GrantToSysadmin bool
}

const scriptRule = "-- ========================================================================="

// Script assembles the rendered statements into a reviewable, downloadable
// SQL script: header, privileged-role switch, commented sections, and a
// closing status line. The statements themselves are exactly what Render
// produces, in the same order.
func Script(set PermissionSet, p ScriptParams) (string, error) {
	secs, err := sections(set, p.Role, p.AgentFQN, p.Warehouse)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(scriptRule + "\n")
	fmt.Fprintf(&b, "-- Least-privilege grant script for agent %s\n", p.AgentFQN)
	if !p.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "-- Generated on %s\n", p.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString(scriptRule + "\n\n")
	b.WriteString("-- Review before running. Granting requires a privileged role.\n")
	b.WriteString("USE ROLE SECURITYADMIN;\n")

	for _, sec := range secs {
		b.WriteString("\n-- " + sec.comment + "\n")
		for _, stmt := range sec.stmts {
			b.WriteString(stmt + "\n")
		}
		if p.GrantToSysadmin && strings.HasPrefix(sec.stmts[0], "CREATE ROLE") {
			fmt.Fprintf(&b, "GRANT ROLE %s TO ROLE SYSADMIN;\n", QuoteIdent(p.Role))
		}
	}

	b.WriteString("\n" + scriptRule + "\n")
	fmt.Fprintf(&b, "SELECT 'Setup complete for role %s' AS status;\n", strings.ReplaceAll(p.Role, "'", "''"))
	return b.String(), nil
}
