package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "cart.yaml", `
agent:
  database: AGENTS
  schema: PUBLIC
  name: SALES_AGENT
role: SALES_AGENT_ROLE
`)

	oldCfg := cfgFile
	cfgFile = cfgPath
	defer func() { cfgFile = oldCfg }()

	if err := runValidateCmd(nil, nil); err != nil {
		t.Fatalf("runValidateCmd() error: %v", err)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "cart.yaml", `
agent:
  schema: PUBLIC
  name: SALES_AGENT
`)

	oldCfg := cfgFile
	cfgFile = cfgPath
	defer func() { cfgFile = oldCfg }()

	if err := runValidateCmd(nil, nil); err == nil {
		t.Fatal("expected error for config missing agent.database")
	}
}

func TestRunValidate_SpecFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "cart.yaml", `
agent:
  database: AGENTS
  schema: PUBLIC
  name: SALES_AGENT
`)
	specPath := writeTestFile(t, dir, "spec.json", `{
  "tools": [
    {"tool_spec": {"name": "SALES_QA", "type": "cortex_analyst_text_to_sql"}}
  ],
  "tool_resources": {
    "SALES_QA": {"semantic_view": "DB.SCH.SALES_VIEW"}
  }
}`)

	oldCfg, oldSpec := cfgFile, validateSpecFile
	cfgFile, validateSpecFile = cfgPath, specPath
	defer func() { cfgFile, validateSpecFile = oldCfg, oldSpec }()

	if err := runValidateCmd(nil, nil); err != nil {
		t.Fatalf("runValidateCmd() error: %v", err)
	}
}

func TestRunValidate_MalformedSpecFile(t *testing.T) {
	dir := t.TempDir()
	specPath := writeTestFile(t, dir, "spec.json", `{"no_tools": true}`)

	oldCfg, oldSpec := cfgFile, validateSpecFile
	cfgFile, validateSpecFile = filepath.Join(dir, "absent.yaml"), specPath
	defer func() { cfgFile, validateSpecFile = oldCfg, oldSpec }()

	if err := runValidateCmd(nil, nil); err == nil {
		t.Fatal("expected error for spec with no tools array")
	}
}
