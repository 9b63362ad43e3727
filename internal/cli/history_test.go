package cli

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/poolsort/internal/store"
)

func TestHistoryGoldenText(t *testing.T) {
	dbPath := seedDatabase(t, historyRuns(), nil)

	out, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assertGolden(t, "history_text", []byte(out))
}

func TestHistoryLimit(t *testing.T) {
	dbPath := seedDatabase(t, historyRuns(), nil)

	out, _, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-b", resp.Data[0].ID)
	assert.Equal(t, int64(1), resp.Data[0].Stats.InlineFallbacks)
}

func TestHistoryEmpty(t *testing.T) {
	dbPath := seedDatabase(t, nil, nil)

	out, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistoryMissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestHistoryNonExistentDatabase(t *testing.T) {
	_, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", "/nonexistent/path/runs.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryLeavesForeignDatabaseUntouched(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE notes (body TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a run history database")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	db, err = sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM sqlite_master WHERE name = 'runs'").Scan(&n))
	assert.Zero(t, n, "history must not create tables")
}
