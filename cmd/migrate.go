package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the projects and submissions tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore(cmd.Context(), "migrate")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		zap.L().Info("migrations applied",
			zap.String("driver", cfg.Store.Driver),
			zap.String("projects_schema", cfg.Store.Schemas.Projects),
			zap.String("submissions_schema", cfg.Store.Schemas.Submissions),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
