package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vestahome/designer-hub/internal/config"
	"github.com/vestahome/designer-hub/internal/export"
	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "migrate", "schema", "submissions", "projects", "receipt"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "designer-hub", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSubmissionsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range submissionsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "export", "sync-ledger"} {
		assert.True(t, names[name], "expected submissions subcommand %q", name)
	}

	flag := submissionsListCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "50", flag.DefValue)
}

func TestWriteSchema(t *testing.T) {
	schema := form.Default()

	var buf bytes.Buffer
	require.NoError(t, writeSchema(&buf, schema, "json"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotEmpty(t, decoded)

	buf.Reset()
	require.NoError(t, writeSchema(&buf, schema, "yaml"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.NotEmpty(t, fromYAML)
	assert.Contains(t, buf.String(), form.FieldProjectID)

	assert.Error(t, writeSchema(&buf, schema, "toml"))
}

func TestFormatSubmissionsList(t *testing.T) {
	at := time.Date(2025, 6, 15, 17, 30, 0, 0, time.UTC)
	subs := []model.Submission{
		{
			ID:          "abc12345-6789-0000-0000-000000000000",
			ProjectID:   "VH-2025-001",
			Market:      "Florida",
			Address:     "1 Ocean Drive, Miami Beach, Florida 33139",
			SubmittedBy: "sam@vestahome.com",
			SubmittedAt: at,
		},
		{ID: "def", ProjectID: "VH-2025-002", SubmittedBy: "unknown", SubmittedAt: at},
	}

	var buf bytes.Buffer
	formatSubmissionsList(&buf, subs, time.UTC)

	out := buf.String()
	assert.Contains(t, out, "PROJECT")
	assert.Contains(t, out, "abc12345")
	assert.NotContains(t, out, "abc12345-6789")
	assert.Contains(t, out, "VH-2025-001")
	assert.Contains(t, out, "1 Ocean Drive, Miami Beach,...")
	assert.Contains(t, out, "2025-06-15 17:30")
	assert.Contains(t, out, export.Blank)
}

func TestFormatDetail(t *testing.T) {
	var buf bytes.Buffer
	formatDetail(&buf, export.Detail{
		ProjectID:   "VH-2025-001",
		SubmittedBy: "sam@vestahome.com",
		Date:        "Sun, Jun 15, 2025, 5:30 PM",
		Groups: []export.Group{{
			Icon:  "01",
			Title: "Project Details",
			Items: []export.Item{{Label: "Is the project/job complete?", Value: "Yes"}},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "VH-2025-001")
	assert.Contains(t, out, "01 Project Details")
	assert.Contains(t, out, "Is the project/job complete?")
	assert.Contains(t, out, "Yes")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestDirectoryOptions(t *testing.T) {
	opts, err := directoryOptions(config.DirectoryConfig{Sheet: "Active", Charset: "windows-1252", Delimiter: ";"})
	require.NoError(t, err)
	assert.Equal(t, "Active", opts.Sheet)
	assert.Equal(t, "windows-1252", opts.Charset)
	assert.Equal(t, ';', opts.Delimiter)

	_, err = directoryOptions(config.DirectoryConfig{Delimiter: ";;"})
	assert.Error(t, err)
}

func TestInitStore(t *testing.T) {
	ctx := context.Background()

	st, err := initStore(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "hub.db")})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	require.NoError(t, st.Close())

	_, err = initStore(ctx, config.StoreConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestNewNotifier(t *testing.T) {
	c := &config.Config{}
	assert.Nil(t, newNotifier(c, time.UTC))

	c.Postmark.ServerToken = "pm-token"
	c.Postmark.From = "noreply@vestahome.com"
	c.Postmark.RateLimit = 5
	assert.NotNil(t, newNotifier(c, time.UTC))
}

func TestReceiptFromFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("to", "", "")
	cmd.Flags().String("project", "", "")
	cmd.Flags().String("market", "", "")
	cmd.Flags().String("address", "", "")
	cmd.Flags().String("at", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{
		"--to", "sam@vestahome.com", "--project", "VH-1", "--at", "2025-06-15T17:30:00Z",
	}))

	r, err := receiptFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "sam@vestahome.com", r.SubmitterEmail)
	assert.Equal(t, "VH-1", r.ProjectID)
	assert.Equal(t, time.Date(2025, 6, 15, 17, 30, 0, 0, time.UTC), r.SubmittedAt)

	require.NoError(t, cmd.Flags().Set("at", "yesterday"))
	_, err = receiptFromFlags(cmd)
	assert.Error(t, err)
}
