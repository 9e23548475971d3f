// Package snowflake connects the pure grant engine to a live account: it
// fetches agent specifications with DESCRIBE AGENT and reads semantic model
// YAML from semantic views and stages.
package snowflake

import (
	"database/sql"
	"fmt"
	"os"

	sf "github.com/snowflakedb/gosnowflake"
)

// ConnParams carries the connection settings. Every field falls back to the
// matching SNOWFLAKE_* environment variable; the password is only ever read
// from the environment.
type ConnParams struct {
	Account   string
	User      string
	Role      string
	Warehouse string
	Database  string
	Schema    string
}

func (p ConnParams) withEnv() ConnParams {
	fill := func(v *string, key string) {
		if *v == "" {
			*v = os.Getenv(key)
		}
	}
	fill(&p.Account, "SNOWFLAKE_ACCOUNT")
	fill(&p.User, "SNOWFLAKE_USER")
	fill(&p.Role, "SNOWFLAKE_ROLE")
	fill(&p.Warehouse, "SNOWFLAKE_WAREHOUSE")
	fill(&p.Database, "SNOWFLAKE_DATABASE")
	fill(&p.Schema, "SNOWFLAKE_SCHEMA")
	return p
}

// Open establishes a database handle from the given parameters plus the
// SNOWFLAKE_* environment. It fails fast when account, user, or password
// are missing rather than letting the driver produce a connect timeout.
func Open(p ConnParams) (*sql.DB, error) {
	p = p.withEnv()
	password := os.Getenv("SNOWFLAKE_PASSWORD")

	if p.Account == "" || p.User == "" || password == "" {
		return nil, fmt.Errorf("snowflake connection needs SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER and SNOWFLAKE_PASSWORD")
	}

	cfg := &sf.Config{
		Account:   p.Account,
		User:      p.User,
		Password:  password,
		Role:      p.Role,
		Warehouse: p.Warehouse,
		Database:  p.Database,
		Schema:    p.Schema,
	}
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("building snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening snowflake connection: %w", err)
	}
	return db, nil
}
