package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storymath/internal/problem"
	"github.com/abhisek/storymath/internal/store"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"STORYMATH_API_URL", "STORYMATH_DB", "STORYMATH_NO_JOURNAL", "STORYMATH_LOG_FILE", "STORYMATH_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cmd := &cobra.Command{Use: "test"}
	addGlobalFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	db := filepath.Join(t.TempDir(), "calls.db")
	cmd := newTestCommand(t, "--api-url", "http://quiz.test:9000/api", "--db", db, "--no-journal")

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://quiz.test:9000/api", cfg.API.BaseURL)
	assert.Equal(t, db, cfg.Journal.Path)
	assert.True(t, cfg.Journal.Disabled)
}

func TestLoadConfig_RejectsBadURL(t *testing.T) {
	cmd := newTestCommand(t, "--api-url", "not a url")

	_, err := loadConfig(cmd)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	cmd := newTestCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loadConfig(cmd)
	assert.Error(t, err)
}

func TestSetup_OpensJournal(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nested", "calls.db")
	cmd := newTestCommand(t, "--db", db)
	t.Setenv("STORYMATH_LOG_FILE", "-")

	e, err := setup(cmd)
	require.NoError(t, err)
	defer e.Close()

	require.NotNil(t, e.journal())
	_, err = os.Stat(db)
	assert.NoError(t, err)
	assert.NotNil(t, e.gateway())
}

func TestSetup_JournalDisabled(t *testing.T) {
	cmd := newTestCommand(t, "--no-journal")
	t.Setenv("STORYMATH_LOG_FILE", "-")

	e, err := setup(cmd)
	require.NoError(t, err)
	defer e.Close()

	assert.Nil(t, e.journal())
}

func TestPrintCalls(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		printCalls(&buf, nil)
		assert.Equal(t, "No calls recorded.\n", buf.String())
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		printCalls(&buf, []store.CallRecord{
			{ID: 2, Timestamp: time.Now(), Kind: store.KindGateway, Target: "/submit", Method: "POST", Status: 200, LatencyMs: 12, Success: true},
			{ID: 1, Timestamp: time.Now(), Kind: store.KindGateway, Target: "/problems", Method: "GET", LatencyMs: 3, ErrorMessage: "connection refused"},
		})
		out := buf.String()
		assert.Contains(t, out, "/submit")
		assert.Contains(t, out, "200")
		assert.Contains(t, out, "✓")
		assert.Contains(t, out, "✗")
		assert.Contains(t, out, "connection refused")
	})
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, []store.TargetUsage{
		{Kind: store.KindGateway, Target: "/problems", Calls: 4, Failures: 1, AvgLatencyMs: 20},
		{Kind: store.KindLLM, Target: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Kind: store.KindLLM, Target: "homegrown-model", Calls: 1, InputTokens: 10, OutputTokens: 10},
	})
	out := buf.String()

	assert.Contains(t, out, "Backend Calls")
	assert.Contains(t, out, "/problems")
	assert.Contains(t, out, "$0.75")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: homegrown-model")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestAuthorRequest(t *testing.T) {
	newAuthorCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "author"}
		addAuthorFlags(cmd.Flags())
		require.NoError(t, cmd.Flags().Parse(args))
		return cmd
	}

	t.Run("defaults", func(t *testing.T) {
		req, err := authorRequest(newAuthorCmd())
		require.NoError(t, err)
		assert.Equal(t, problem.OperationSubtraction, req.Operation)
		assert.Equal(t, problem.VisualApples, req.VisualType)
		assert.Equal(t, problem.DifficultyEasy, req.Difficulty)
		assert.Equal(t, 3, req.Count)
	})

	t.Run("invalid visual", func(t *testing.T) {
		_, err := authorRequest(newAuthorCmd("--visual", "dragons"))
		assert.ErrorContains(t, err, "unknown visual type")
	})
}
