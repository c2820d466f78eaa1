package main

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/config"
	"github.com/vestahome/designer-hub/internal/directory"
	"github.com/vestahome/designer-hub/internal/model"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage the project directory used for autofill",
}

// -- projects import --

var projectsImportCmd = &cobra.Command{
	Use:   "import [source]",
	Short: "Import projects from an xlsx/csv file or URL",
	Long:  "Reads a project export (local path or http(s) URL) and upserts every row into the projects table.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dc := cfg.Directory
		if len(args) == 1 {
			dc.Source = args[0]
		}
		if s, _ := cmd.Flags().GetString("sheet"); s != "" {
			dc.Sheet = s
		}
		if s, _ := cmd.Flags().GetString("charset"); s != "" {
			dc.Charset = s
		}
		if s, _ := cmd.Flags().GetString("delimiter"); s != "" {
			dc.Delimiter = s
		}
		if dc.Source == "" {
			return eris.New("a source path or URL is required (argument or directory.source)")
		}

		opts, err := directoryOptions(dc)
		if err != nil {
			return err
		}

		projects, err := directory.Load(ctx, dc.Source, opts)
		if err != nil {
			return err
		}
		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			fmt.Fprintf(os.Stdout, "Parsed %d projects (dry run, nothing written).\n", len(projects))
			return nil
		}

		st, err := openStore(ctx, "projects")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.UpsertProjects(ctx, projects)
		if err != nil {
			return eris.Wrap(err, "projects import")
		}
		zap.L().Info("projects imported", zap.String("source", dc.Source), zap.Int64("rows", n))
		return nil
	},
}

// -- projects put --

var projectsPutCmd = &cobra.Command{
	Use:   "put <project-id>",
	Short: "Create or update one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p := model.Project{ID: args[0]}
		p.Market, _ = cmd.Flags().GetString("market")
		p.Address, _ = cmd.Flags().GetString("address")
		p.SalesPerson, _ = cmd.Flags().GetString("sales")
		p.Designer, _ = cmd.Flags().GetString("designer")
		if err := p.Validate(); err != nil {
			return err
		}

		st, err := openStore(ctx, "projects")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if _, err := st.UpsertProjects(ctx, []model.Project{p}); err != nil {
			return eris.Wrap(err, "projects put")
		}
		return nil
	},
}

// -- projects show --

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show the directory entry for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, "projects")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := st.FindProject(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "projects show")
		}
		if p == nil {
			return eris.Errorf("project %q not found", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

// directoryOptions converts configured import settings.
func directoryOptions(dc config.DirectoryConfig) (directory.Options, error) {
	opts := directory.Options{Sheet: dc.Sheet, Charset: dc.Charset}
	if dc.Delimiter != "" {
		if utf8.RuneCountInString(dc.Delimiter) != 1 {
			return opts, eris.Errorf("delimiter must be a single character, got %q", dc.Delimiter)
		}
		opts.Delimiter, _ = utf8.DecodeRuneInString(dc.Delimiter)
	}
	return opts, nil
}

func init() {
	projectsImportCmd.Flags().String("sheet", "", "xlsx sheet name (default first sheet)")
	projectsImportCmd.Flags().String("charset", "", "csv charset, e.g. windows-1252")
	projectsImportCmd.Flags().String("delimiter", "", "csv delimiter (default comma, tab for .tsv)")
	projectsImportCmd.Flags().Bool("dry-run", false, "parse the source without writing")

	projectsPutCmd.Flags().String("market", "", "market")
	projectsPutCmd.Flags().String("address", "", "street address")
	projectsPutCmd.Flags().String("sales", "", "sales personnel")
	projectsPutCmd.Flags().String("designer", "", "designer")

	projectsCmd.AddCommand(projectsImportCmd)
	projectsCmd.AddCommand(projectsPutCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	rootCmd.AddCommand(projectsCmd)
}
