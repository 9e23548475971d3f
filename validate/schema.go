// Package validate provides JSON Schema validation for agent specifications.
package validate

import (
	"fmt"
	"sync"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/schemas"
	"github.com/xeipuuv/gojsonschema"
)

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(schemas.AgentSpecV1Schema)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	return compiledSchema, compileErr
}

// ValidateAgentSpec validates raw JSON bytes against the agent spec schema.
// It returns a slice of validation error descriptions and an error if schema
// compilation fails. Validation findings are advisory: the parser tolerates
// entries the schema flags, so callers surface these as warnings.
func ValidateAgentSpec(jsonData []byte) ([]string, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling agent spec schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("validating agent spec: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
