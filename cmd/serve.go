package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/config"
	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/ledger"
	"github.com/vestahome/designer-hub/internal/receipt"
	"github.com/vestahome/designer-hub/internal/resilience"
	"github.com/vestahome/designer-hub/internal/server"
	"github.com/vestahome/designer-hub/internal/session"
	"github.com/vestahome/designer-hub/internal/submission"
	"github.com/vestahome/designer-hub/pkg/postmark"
	"github.com/vestahome/designer-hub/pkg/supabase"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the designer hub API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, "serve")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		schema := form.Default()
		loc := cfg.Server.Location()

		var (
			hooks    []submission.Hook
			notifier server.Notifier
		)
		if n := newNotifier(cfg, loc); n != nil {
			notifier = n
			hooks = append(hooks, n.Hook())
		} else {
			zap.L().Warn("postmark.server_token not set; receipts disabled")
		}
		if cfg.Notion.Enabled() {
			l := ledger.Open(cfg.Notion.Token, cfg.Notion.ClosingsDB)
			hooks = append(hooks, l.Hook())
		}

		svc := submission.NewService(schema, st, hooks...)
		sessions := session.NewManager(schema, time.Duration(cfg.Server.SessionTTLMins)*time.Minute)
		go sessions.Run(ctx, 10*time.Minute)

		srv := server.New(server.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			SiteURL:        cfg.Server.SiteURL,
			CookieName:     cfg.Auth.CookieName,
			Provider:       cfg.Auth.Provider,
			Location:       loc,
			LookupTimeout:  time.Duration(cfg.Server.LookupTimeout) * time.Second,
		}, server.Deps{
			Schema:    schema,
			Sessions:  sessions,
			Store:     st,
			Submitter: svc,
			Notifier:  notifier,
			Auth:      supabase.NewClient(cfg.Auth.SupabaseURL, cfg.Auth.AnonKey),
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		// Let in-flight receipt and ledger hooks finish before the store closes.
		svc.Wait()
		return nil
	},
}

// newNotifier builds the receipt notifier, or nil when email is not
// configured.
func newNotifier(c *config.Config, loc *time.Location) *receipt.Notifier {
	if c.Postmark.ServerToken == "" {
		return nil
	}
	opts := []postmark.Option{
		postmark.WithBaseURL(c.Postmark.BaseURL),
		postmark.WithRetry(resilience.FromSettings(c.Postmark.RetryAttempts, 0, 0)),
	}
	if c.Postmark.RateLimit > 0 {
		opts = append(opts, postmark.WithRateLimit(c.Postmark.RateLimit))
	}
	return receipt.NewNotifier(postmark.NewClient(c.Postmark.ServerToken, opts...), receipt.Config{
		From:          c.Postmark.From,
		MessageStream: c.Postmark.MessageStream,
		Operations:    c.Postmark.Operations,
		SiteURL:       c.Server.SiteURL,
		Location:      loc,
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
