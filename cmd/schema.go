package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vestahome/designer-hub/internal/form"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the project-close form schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		schema := form.Default()
		if err := schema.Validate(); err != nil {
			return err
		}
		return writeSchema(os.Stdout, schema, format)
	},
}

func writeSchema(w io.Writer, schema *form.Schema, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(schema), "schema: encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(schema); err != nil {
			return eris.Wrap(err, "schema: encode yaml")
		}
		return eris.Wrap(enc.Close(), "schema: encode yaml")
	default:
		return eris.Errorf("unsupported format %q (json, yaml)", format)
	}
}

func init() {
	schemaCmd.Flags().String("format", "json", "output format: json or yaml")
	rootCmd.AddCommand(schemaCmd)
}
