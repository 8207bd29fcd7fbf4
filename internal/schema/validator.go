// Where: deliriumctl/internal/schema/validator.go
// What: Compose overlay schema validation.
// Why: Catch malformed overlays before docker compose produces a worse error
//      halfway through a launch.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

//go:embed compose.schema.json
var composeSchema []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// ValidateComposeFile validates one compose overlay on disk.
func ValidateComposeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read compose file %s: %w", path, err)
	}
	if err := ValidateCompose(content); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}

// ValidateCompose validates raw compose YAML against the embedded subset
// schema. The schema checks structure, not full compose semantics.
func ValidateCompose(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return sch.Validate(document)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("compose.schema.json", bytes.NewReader(composeSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("compose.schema.json")
	})
	return compiledSchema, schemaErr
}
