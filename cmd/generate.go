package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/config"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/gen"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/logging"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/tui"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/tui/steps"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/pipeline"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/snowflake"
)

var (
	genDatabase  string
	genSchema    string
	genAgent     string
	genRole      string
	genWarehouse string
	genSpecFile  string
	genModelFile string
	genSysadmin  bool
	genDryRun    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the grant script for an agent",
	Long: "Inspects the agent's tools and semantic models and writes a SQL script\n" +
		"creating a role with the minimum permissions the agent needs. Connects to\n" +
		"Snowflake unless --spec-file supplies the agent spec locally.",
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genDatabase, "database", "d", "", "agent database")
	generateCmd.Flags().StringVarP(&genSchema, "schema", "s", "", "agent schema")
	generateCmd.Flags().StringVarP(&genAgent, "agent", "a", "", "agent name")
	generateCmd.Flags().StringVarP(&genRole, "role", "r", "", "role to create (default <AGENT>_ROLE)")
	generateCmd.Flags().StringVarP(&genWarehouse, "warehouse", "w", "", "session warehouse the role also gets USAGE on")
	generateCmd.Flags().StringVar(&genSpecFile, "spec-file", "", "read the agent spec JSON from a file instead of DESCRIBE AGENT")
	generateCmd.Flags().StringVar(&genModelFile, "model-file", "", "read semantic model YAML from a file instead of Snowflake")
	generateCmd.Flags().BoolVar(&genSysadmin, "sysadmin", false, "also grant the new role to SYSADMIN")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "print the script to stdout without writing a file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger()

	// Missing .env is fine; explicit environment always wins.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}

	applyConfigDefaults()

	if missingAgentParams() {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("agent database, schema and name are required (flags, cart.yaml, or interactive terminal)")
		}
		if err := runWizard(); err != nil {
			return err
		}
	}
	if genRole == "" {
		genRole = strings.ToUpper(genAgent) + "_ROLE"
	}

	rc := pipeline.NewRunContext(pipeline.RunOptions{
		Database:        genDatabase,
		Schema:          genSchema,
		Agent:           genAgent,
		Role:            genRole,
		Warehouse:       genWarehouse,
		GrantToSysadmin: genSysadmin,
		OutputDir:       outputDir,
		Verbose:         verbose,
	})

	ctx := context.Background()
	if err := wireSources(ctx, rc); err != nil {
		return err
	}

	var p *pipeline.Pipeline
	if genDryRun {
		p = gen.NewDryRunPipeline(time.Now)
	} else {
		p = gen.NewPipeline(time.Now)
	}
	if err := p.Run(ctx, rc); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, w := range rc.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	if genDryRun {
		fmt.Print(rc.Script)
		return nil
	}
	for rel, abs := range rc.GeneratedFiles {
		logger.Info("wrote grant script", "file", rel, "path", abs)
		fmt.Printf("Grant script written to %s\n", abs)
	}
	fmt.Printf("Review the script, then run it with a role that can create roles and grant privileges.\n")
	return nil
}

// applyConfigDefaults fills unset flags from cart.yaml when it exists. An
// absent config file is not an error; a malformed one is surfaced only in
// verbose mode since the flags may fully specify the run.
func applyConfigDefaults() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.GetLogger().Debug("config not loaded", "path", cfgFile, "error", err)
		}
		return
	}
	if genDatabase == "" {
		genDatabase = cfg.Agent.Database
	}
	if genSchema == "" {
		genSchema = cfg.Agent.Schema
	}
	if genAgent == "" {
		genAgent = cfg.Agent.Name
	}
	if genRole == "" {
		genRole = cfg.Role
	}
	if genWarehouse == "" {
		genWarehouse = cfg.Warehouse
	}
	if outputDir == "." && cfg.Output.Dir != "" {
		outputDir = cfg.Output.Dir
	}
}

func missingAgentParams() bool {
	return genDatabase == "" || genSchema == "" || genAgent == ""
}

// runWizard collects the missing parameters interactively.
func runWizard() error {
	theme := tui.DetectTheme(themeOverride)
	styles := tui.NewStyleSet(theme)

	wizardSteps := []tui.Step{
		steps.NewInputStep(styles, "Agent Database", "Which database holds the agent?", "AGENTS", genDatabase, false,
			func(ctx *tui.WizardContext, v string) { ctx.Database = v }),
		steps.NewInputStep(styles, "Agent Schema", "Which schema holds the agent?", "PUBLIC", genSchema, false,
			func(ctx *tui.WizardContext, v string) { ctx.Schema = v }),
		steps.NewInputStep(styles, "Agent Name", "What is the agent called?", "SALES_AGENT", genAgent, false,
			func(ctx *tui.WizardContext, v string) { ctx.Agent = v }),
		steps.NewInputStep(styles, "Role Name", "What should the new role be called? (empty for <AGENT>_ROLE)", "", genRole, true,
			func(ctx *tui.WizardContext, v string) { ctx.Role = v }),
		steps.NewInputStep(styles, "Warehouse", "Session warehouse to grant USAGE on? (optional)", "", genWarehouse, true,
			func(ctx *tui.WizardContext, v string) { ctx.Warehouse = v }),
		steps.NewReviewStep(styles),
	}

	model := tui.NewWizardModel(theme, wizardSteps, appVersion)
	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}
	wm, ok := finalModel.(tui.WizardModel)
	if !ok {
		return fmt.Errorf("unexpected wizard model type")
	}
	if wm.Err() != nil {
		return wm.Err()
	}
	if !wm.Done() {
		return fmt.Errorf("wizard cancelled")
	}

	wctx := wm.Context()
	genDatabase = wctx.Database
	genSchema = wctx.Schema
	genAgent = wctx.Agent
	genRole = wctx.Role
	genWarehouse = wctx.Warehouse
	return nil
}

// wireSources decides where the spec and the semantic model YAML come from:
// local files when the flags say so, the live account otherwise. The
// connection is only opened when something actually needs it.
func wireSources(ctx context.Context, rc *pipeline.RunContext) error {
	needsConn := genSpecFile == "" || genModelFile == ""

	if genSpecFile != "" {
		rc.Source = func() ([]byte, error) { return os.ReadFile(genSpecFile) }
	}
	if genModelFile != "" {
		rc.Provider = func(ref agentspec.SemanticModelRef) (string, error) {
			data, err := os.ReadFile(genModelFile)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}
	if !needsConn {
		return nil
	}

	db, err := snowflake.Open(snowflake.ConnParams{Warehouse: genWarehouse})
	if err != nil {
		return err
	}
	if rc.Source == nil {
		rc.Source = func() ([]byte, error) {
			return snowflake.DescribeAgent(ctx, db, genDatabase, genSchema, genAgent)
		}
	}
	if rc.Provider == nil {
		rc.Provider = snowflake.NewContentProvider(ctx, db)
	}
	return nil
}
