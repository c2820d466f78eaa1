package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/export"
	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/ledger"
	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/store"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect project-close submissions",
	Long:  "Commands for listing, viewing, exporting, and mirroring stored submissions.",
}

// -- submissions list --

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, "submissions")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		subs, err := st.ListSubmissions(ctx, filterFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "submissions list")
		}

		if len(subs) == 0 {
			fmt.Fprintln(os.Stderr, "No submissions found.")
			return nil
		}

		formatSubmissionsList(os.Stdout, subs, cfg.Server.Location())
		return nil
	},
}

// -- submissions show --

var submissionsShowCmd = &cobra.Command{
	Use:   "show <submission-id>",
	Short: "Show one submission section by section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, "submissions")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sub, err := st.GetSubmission(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "submissions show")
		}

		detail := export.Build(form.Default(), sub, cfg.Server.Location())
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		}
		formatDetail(os.Stdout, detail)
		return nil
	},
}

// -- submissions export --

var submissionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write submissions to an xlsx workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return eris.New("--out is required")
		}

		st, err := openStore(ctx, "submissions")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		subs, err := st.ListSubmissions(ctx, filterFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "submissions export")
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrap(err, "submissions export: create file")
		}
		defer f.Close() //nolint:errcheck

		if err := export.WriteXLSX(f, form.Default(), subs, cfg.Server.Location()); err != nil {
			return err
		}
		zap.L().Info("submissions exported", zap.String("path", out), zap.Int("rows", len(subs)))
		return nil
	},
}

// -- submissions sync-ledger --

var submissionsSyncLedgerCmd = &cobra.Command{
	Use:   "sync-ledger",
	Short: "Mirror stored submissions into the Notion closings database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !cfg.Notion.Enabled() {
			return eris.New("notion.token and notion.closings_db are required")
		}

		st, err := openStore(ctx, "submissions")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		subs, err := st.ListSubmissions(ctx, filterFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "submissions sync-ledger")
		}

		l := ledger.Open(cfg.Notion.Token, cfg.Notion.ClosingsDB)
		var skip map[string]bool
		if missing, _ := cmd.Flags().GetBool("missing-only"); missing {
			if skip, err = l.Existing(ctx); err != nil {
				return err
			}
		}

		synced, failed := 0, 0
		for i := range subs {
			if skip[subs[i].ProjectID] {
				continue
			}
			if _, err := l.Record(ctx, model.ReceiptFor(&subs[i])); err != nil {
				failed++
				zap.L().Warn("ledger sync failed", zap.String("id", subs[i].ID), zap.Error(err))
				continue
			}
			synced++
		}
		zap.L().Info("ledger sync complete", zap.Int("synced", synced), zap.Int("failed", failed))
		if synced == 0 && failed > 0 {
			return eris.New("submissions sync-ledger: every record failed")
		}
		return nil
	},
}

func filterFromFlags(cmd *cobra.Command) store.SubmissionFilter {
	by, _ := cmd.Flags().GetString("by")
	project, _ := cmd.Flags().GetString("project")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.SubmissionFilter{SubmittedBy: by, ProjectID: project, Limit: limit}
}

func init() {
	for _, c := range []*cobra.Command{submissionsListCmd, submissionsExportCmd, submissionsSyncLedgerCmd} {
		c.Flags().String("by", "", "filter by submitter email")
		c.Flags().String("project", "", "filter by project id")
		c.Flags().Int("limit", 50, "max number of submissions")
	}
	submissionsSyncLedgerCmd.Flags().Bool("missing-only", false, "only mirror projects without a ledger page")
	submissionsShowCmd.Flags().Bool("json", false, "print the detail as JSON")
	submissionsExportCmd.Flags().String("out", "", "path of the xlsx file to write")

	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsShowCmd)
	submissionsCmd.AddCommand(submissionsExportCmd)
	submissionsCmd.AddCommand(submissionsSyncLedgerCmd)
	rootCmd.AddCommand(submissionsCmd)
}

// formatSubmissionsList writes a tabular list of submissions to w.
func formatSubmissionsList(out io.Writer, subs []model.Submission, loc *time.Location) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPROJECT\tMARKET\tADDRESS\tSUBMITTED_BY\tSUBMITTED")
	_, _ = fmt.Fprintln(w, "--\t-------\t------\t-------\t------------\t---------")

	for _, s := range subs {
		address := s.Address
		if len(address) > 30 {
			address = address[:27] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(s.ID),
			s.ProjectID,
			orBlank(s.Market),
			orBlank(address),
			s.SubmittedBy,
			s.SubmittedAt.In(loc).Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatDetail writes a submission detail grouped by section.
func formatDetail(out io.Writer, d export.Detail) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Project:\t%s\n", d.ProjectID)
	_, _ = fmt.Fprintf(w, "Market:\t%s\n", orBlank(d.Market))
	_, _ = fmt.Fprintf(w, "Address:\t%s\n", orBlank(d.Address))
	_, _ = fmt.Fprintf(w, "Submitted by:\t%s\n", d.SubmittedBy)
	_, _ = fmt.Fprintf(w, "Submitted:\t%s\n", d.Date)
	for _, g := range d.Groups {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", g.Icon, g.Title)
		for _, it := range g.Items {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", it.Label, it.Value)
		}
	}
	_ = w.Flush()
}

func orBlank(s string) string {
	if s == "" {
		return export.Blank
	}
	return s
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
