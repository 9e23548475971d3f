package snowflake

import (
	"strings"
	"testing"
)

func TestOpen_MissingCredentials(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "")
	t.Setenv("SNOWFLAKE_USER", "")
	t.Setenv("SNOWFLAKE_PASSWORD", "")

	_, err := Open(ConnParams{})
	if err == nil || !strings.Contains(err.Error(), "SNOWFLAKE_ACCOUNT") {
		t.Errorf("got %v, want missing-credentials error", err)
	}
}

func TestConnParams_EnvFallback(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "env-account")
	t.Setenv("SNOWFLAKE_USER", "env-user")
	t.Setenv("SNOWFLAKE_ROLE", "ENV_ROLE")

	p := ConnParams{User: "explicit-user"}.withEnv()
	if p.Account != "env-account" {
		t.Errorf("Account = %s, want env fallback", p.Account)
	}
	if p.User != "explicit-user" {
		t.Errorf("User = %s, explicit value must win over env", p.User)
	}
	if p.Role != "ENV_ROLE" {
		t.Errorf("Role = %s", p.Role)
	}
}
