package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/snowflake"
)

var (
	inspectDatabase string
	inspectSchema   string
	inspectAgent    string
	inspectSpecFile string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show an agent's tools and their resource bindings",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectDatabase, "database", "d", "", "agent database")
	inspectCmd.Flags().StringVarP(&inspectSchema, "schema", "s", "", "agent schema")
	inspectCmd.Flags().StringVarP(&inspectAgent, "agent", "a", "", "agent name")
	inspectCmd.Flags().StringVar(&inspectSpecFile, "spec-file", "", "read the agent spec JSON from a file instead of DESCRIBE AGENT")
}

func runInspect(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error

	if inspectSpecFile != "" {
		raw, err = os.ReadFile(inspectSpecFile)
		if err != nil {
			return fmt.Errorf("reading spec file: %w", err)
		}
	} else {
		if inspectDatabase == "" || inspectSchema == "" || inspectAgent == "" {
			return fmt.Errorf("agent database, schema and name are required (or use --spec-file)")
		}
		_ = godotenv.Load()
		db, err := snowflake.Open(snowflake.ConnParams{})
		if err != nil {
			return err
		}
		raw, err = snowflake.DescribeAgent(context.Background(), db, inspectDatabase, inspectSchema, inspectAgent)
		if err != nil {
			return err
		}
	}

	result, err := agentspec.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing agent spec: %w", err)
	}

	for _, t := range result.Tools {
		fmt.Printf("%s  (%s)\n", t.Name, t.Type)
		switch {
		case t.SemanticModel != nil && t.SemanticModel.Location == agentspec.LocationView:
			fmt.Printf("    semantic view:  %s\n", t.SemanticModel.View)
		case t.SemanticModel != nil && t.SemanticModel.Location == agentspec.LocationStage:
			fmt.Printf("    model file:     %s\n", t.SemanticModel.Stage.String())
		case t.SearchService != "":
			fmt.Printf("    search service: %s\n", t.SearchService)
		case t.Procedure != "":
			fmt.Printf("    procedure:      %s\n", t.Procedure)
		}
		if t.Warehouse != "" {
			fmt.Printf("    warehouse:      %s\n", t.Warehouse)
		}
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	return nil
}
