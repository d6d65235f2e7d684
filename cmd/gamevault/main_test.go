package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/enrich"
	"github.com/ryanm101/gamevault/internal/library"
	"github.com/ryanm101/gamevault/internal/vault"
)

type cliTestEnv struct {
	root       string
	configPath string
}

func setupCLITestEnv(t *testing.T, folders ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "games")
	require.NoError(t, os.MkdirAll(root, 0o755))
	for _, name := range folders {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
	}

	t.Setenv("GAMEVAULT_CONFIG", "")
	t.Setenv("GAMEVAULT_DB", "")
	t.Setenv("GAMES_PATH", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("IGDB_CLIENT_ID", "")
	t.Setenv("IGDB_CLIENT_SECRET", "")

	configPath := filepath.Join(base, "gamevault.yaml")
	config := "paths:\n" +
		"  game_library: " + root + "\n" +
		"  database: " + filepath.Join(base, "data", "gamevault.db") + "\n" +
		"enrich:\n" +
		"  rate_limit_ms: -1\n" +
		"logging:\n" +
		"  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	return &cliTestEnv{root: root, configPath: configPath}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := &appContext{}
	defer app.close(context.Background())

	cmd := newRootCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliTestEnv) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := e.run(t, append(args, "--json")...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func (e *cliTestEnv) gameID(t *testing.T, title string) int64 {
	t.Helper()
	var games []*db.Game
	e.runJSON(t, &games, "list", "--search", title)
	require.Len(t, games, 1)
	return games[0].ID
}

func TestScanAndList(t *testing.T) {
	env := setupCLITestEnv(t, "Hades", "Celeste [FitGirl Repack]", ".hidden")

	var res library.ScanResult
	env.runJSON(t, &res, "scan")
	assert.Equal(t, 2, res.AddedOrUpdated)
	assert.Equal(t, 1, res.Excluded)

	var games []*db.Game
	env.runJSON(t, &games, "list")
	titles := make([]string, 0, len(games))
	for _, g := range games {
		titles = append(titles, g.Title)
		assert.Equal(t, db.StatusPending, g.MatchStatus)
	}
	assert.ElementsMatch(t, []string{"Hades", "Celeste"}, titles)

	env.runJSON(t, &games, "list", "--search", "Cel")
	require.Len(t, games, 1)
	assert.Equal(t, "Celeste", games[0].Title)

	out, err := env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hades")
	assert.Contains(t, out, "╭")
}

func TestScan_Quiet(t *testing.T) {
	env := setupCLITestEnv(t, "Hades")

	out, err := env.run(t, "scan", "--quiet")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestScan_ExplicitRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	other := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(other, "Celeste"), 0o755))

	var res library.ScanResult
	env.runJSON(t, &res, "scan", other)
	assert.Equal(t, 1, res.AddedOrUpdated)
}

func TestStats(t *testing.T) {
	env := setupCLITestEnv(t, "Hades", "Celeste")
	_, err := env.run(t, "scan", "--quiet")
	require.NoError(t, err)

	var st db.Stats
	env.runJSON(t, &st, "stats")
	assert.Equal(t, int64(2), st.TotalGames)
	assert.Equal(t, int64(2), st.PendingGames)
	assert.Equal(t, int64(0), st.MatchedGames)
}

func TestEdit(t *testing.T) {
	env := setupCLITestEnv(t, "Hades")
	_, err := env.run(t, "scan", "--quiet")
	require.NoError(t, err)
	id := env.gameID(t, "Hades")

	var g db.Game
	env.runJSON(t, &g, "edit", itoa(id), "--title", "Hades II", "--genres", "Action, Roguelike,")
	assert.Equal(t, "Hades II", g.Title)
	assert.Equal(t, []string{"Action", "Roguelike"}, g.Genres)
	assert.True(t, g.ManuallyEdited)

	sc, err := vault.ReadSidecar(filepath.Join(env.root, "Hades"))
	require.NoError(t, err)
	assert.Equal(t, "Hades II", sc.Title)
	assert.True(t, sc.ManuallyEdited)
}

func TestEdit_Errors(t *testing.T) {
	env := setupCLITestEnv(t, "Hades")
	_, err := env.run(t, "scan", "--quiet")
	require.NoError(t, err)
	id := env.gameID(t, "Hades")

	_, err = env.run(t, "edit", itoa(id))
	assert.ErrorIs(t, err, enrich.ErrEmptyEdit)

	_, err = env.run(t, "edit", "abc", "--title", "x")
	assert.ErrorContains(t, err, "invalid game id")

	_, err = env.run(t, "edit", "999", "--title", "x")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestExportAndImport(t *testing.T) {
	env := setupCLITestEnv(t, "Hades", "Celeste")
	_, err := env.run(t, "scan", "--quiet")
	require.NoError(t, err)

	var exp enrich.ExportResult
	env.runJSON(t, &exp, "export")
	assert.Equal(t, enrich.ExportResult{Skipped: 2, Total: 2}, exp)

	var imp enrich.ImportResult
	env.runJSON(t, &imp, "import")
	assert.Equal(t, enrich.ImportResult{NotFound: 2, Total: 2}, imp)
}

func TestRematch_InvalidArgs(t *testing.T) {
	env := setupCLITestEnv(t, "Hades")

	_, err := env.run(t, "rematch", "0")
	assert.ErrorContains(t, err, "invalid game id")

	_, err = env.run(t, "rematch", "1", "--confirm", "0")
	assert.ErrorContains(t, err, "invalid app id")
}

func TestRematch_Reset(t *testing.T) {
	env := setupCLITestEnv(t, "Hades")
	_, err := env.run(t, "scan", "--quiet")
	require.NoError(t, err)
	id := env.gameID(t, "Hades")

	out, err := env.run(t, "rematch", itoa(id), "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Match cleared")

	_, err = env.run(t, "rematch", "999", "--reset")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestEnrich_EmptyLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	var sum enrich.Summary
	env.runJSON(t, &sum, "enrich")
	assert.Equal(t, 0, sum.Attempted)
	assert.Equal(t, 0, sum.Total)
	assert.NotEmpty(t, sum.RunID)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Equal(t, []string{}, splitList(""))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
