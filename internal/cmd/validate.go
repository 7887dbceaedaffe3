package cmd

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/gridbugs/slime99-release/internal/config"
)

//go:embed schemas/release-config.v1.schema.json
var schemaFS embed.FS

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the release.yaml configuration",
	Long: `Validates release.yaml against its JSON Schema and checks the
referenced directories are coherent. Run this in CI before the
packaging steps so configuration mistakes fail early with a clear
message instead of mid-pipeline.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, err := config.FindRoot()
	if err != nil {
		return err
	}
	configPath := filepath.Join(root, config.FileName)

	fmt.Printf("🔍 Validating %s...\n", configPath)

	// gojsonschema wants JSON, the config is YAML
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert config to JSON: %w", err)
	}

	schemaBytes, err := schemaFS.ReadFile("schemas/release-config.v1.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load JSON schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(docJSON),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		fmt.Println("\n❌ Validation failed with the following errors:")
		fmt.Println()
		for i, desc := range result.Errors() {
			fmt.Printf("%d. %s\n", i+1, desc.String())
			fmt.Printf("   Field: %s\n\n", desc.Field())
		}
		return fmt.Errorf("validation failed with %d errors", len(result.Errors()))
	}

	// Schema passed; make sure the config also loads (defaults, env) and
	// the target directory exists if any build has been run.
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if warnings := validateSemantics(root, cfg); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Printf("⚠️  %s\n", w)
		}
	}

	fmt.Println("✅ release.yaml is valid")
	return nil
}

// validateSemantics checks things the schema cannot express.
func validateSemantics(root string, cfg *config.Config) []string {
	var warnings []string

	if _, err := os.Stat(filepath.Join(root, cfg.Build.TargetDir)); err != nil {
		warnings = append(warnings, fmt.Sprintf("build output directory %s does not exist yet (run the build first)", cfg.Build.TargetDir))
	}
	if cfg.Build.WebDir != "" {
		if _, err := os.Stat(filepath.Join(root, cfg.Build.WebDir)); err != nil {
			warnings = append(warnings, fmt.Sprintf("web directory %s does not exist", cfg.Build.WebDir))
		}
	}
	if cfg.Publish.Bucket == "" {
		warnings = append(warnings, "no publish.bucket configured; publish commands will need --bucket")
	}
	return warnings
}
