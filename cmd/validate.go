package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/agentspec"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/config"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/validate"
)

var (
	strict           bool
	validateSpecFile string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate cart.yaml and an agent spec file",
	RunE:  runValidateCmd,
}

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().StringVar(&validateSpecFile, "spec-file", "", "agent spec JSON file to validate")
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	var errs, warnings []string

	if _, err := os.Stat(cfgFile); err == nil {
		if _, err := config.Load(cfgFile); err != nil {
			errs = append(errs, err.Error())
		}
	} else if validateSpecFile == "" {
		return fmt.Errorf("nothing to validate: no %s and no --spec-file", cfgFile)
	}

	if validateSpecFile != "" {
		data, err := os.ReadFile(validateSpecFile)
		if err != nil {
			return fmt.Errorf("reading spec file: %w", err)
		}
		findings, err := validate.ValidateAgentSpec(data)
		if err != nil {
			errs = append(errs, err.Error())
		}
		for _, f := range findings {
			warnings = append(warnings, fmt.Sprintf("spec schema: %s", f))
		}

		if result, err := agentspec.Parse(data); err != nil {
			errs = append(errs, err.Error())
		} else {
			for _, w := range result.Warnings {
				warnings = append(warnings, w.String())
			}
		}
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
	}

	if strict && len(warnings) > 0 {
		return fmt.Errorf("validation failed: %d warning(s) treated as errors in strict mode", len(warnings))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %d error(s)", len(errs))
	}

	fmt.Println("Validation passed.")
	return nil
}
