package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/receipt"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Send or preview project-close receipts",
}

// -- receipt send --

var receiptSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Email a receipt to a submitter and the operations inbox",
	Long:  "Sends a receipt directly, or for a stored submission when --submission is given.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("receipt"); err != nil {
			return err
		}

		r, err := receiptFromFlags(cmd)
		if err != nil {
			return err
		}
		if id, _ := cmd.Flags().GetString("submission"); id != "" {
			st, err := openStore(ctx, "submissions")
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			sub, err := st.GetSubmission(ctx, id)
			if err != nil {
				return eris.Wrap(err, "receipt send")
			}
			r = model.ReceiptFor(sub)
		}

		n := newNotifier(cfg, cfg.Server.Location())
		res, err := n.Notify(ctx, r)
		for _, d := range res.Deliveries {
			status := "sent"
			if d.Err != nil {
				status = "failed: " + d.Err.Error()
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", d.To, status)
		}
		return err
	},
}

// -- receipt preview --

var receiptPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a receipt without sending it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := receiptFromFlags(cmd)
		if err != nil {
			return err
		}
		msg, err := receipt.Render(r, cfg.Server.SiteURL, cfg.Server.Location())
		if err != nil {
			return err
		}
		html, _ := cmd.Flags().GetBool("html")
		fmt.Fprintf(os.Stdout, "Subject: %s\n\n", msg.Subject)
		if html {
			fmt.Fprintln(os.Stdout, msg.HTMLBody)
		} else {
			fmt.Fprintln(os.Stdout, msg.TextBody)
		}
		return nil
	},
}

func receiptFromFlags(cmd *cobra.Command) (model.Receipt, error) {
	var r model.Receipt
	r.SubmitterEmail, _ = cmd.Flags().GetString("to")
	r.ProjectID, _ = cmd.Flags().GetString("project")
	r.Market, _ = cmd.Flags().GetString("market")
	r.Address, _ = cmd.Flags().GetString("address")
	if at, _ := cmd.Flags().GetString("at"); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return r, eris.Wrap(err, "--at must be RFC 3339")
		}
		r.SubmittedAt = t
	}
	return r, nil
}

func init() {
	for _, c := range []*cobra.Command{receiptSendCmd, receiptPreviewCmd} {
		c.Flags().String("to", "", "submitter email")
		c.Flags().String("project", "", "project id")
		c.Flags().String("market", "", "market")
		c.Flags().String("address", "", "project address")
		c.Flags().String("at", "", "submission time, RFC 3339 (default now)")
	}
	receiptSendCmd.Flags().String("submission", "", "stored submission id to send the receipt for")
	receiptPreviewCmd.Flags().Bool("html", false, "print the HTML body instead of text")

	receiptCmd.AddCommand(receiptSendCmd)
	receiptCmd.AddCommand(receiptPreviewCmd)
	rootCmd.AddCommand(receiptCmd)
}
