package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/lracheck/internal/storage"
)

const validParticipant = `types:
  - name: com.acme.Order
    annotations: [LRA]
    methods:
      - name: compensate
        annotations: [Compensate, Path, PUT]
        params: [{type: java.net.URI}]
        returns: javax.ws.rs.core.Response
      - name: complete
        annotations: [Complete, Path, PUT]
        params: [{type: java.net.URI}]
        returns: javax.ws.rs.core.Response
`

const brokenParticipant = `types:
  - name: com.acme.Broken
    annotations: [LRA]
    methods:
      - name: complete
        annotations: [Complete]
        params: [{type: java.net.URI}, {type: java.net.URI}]
        returns: void
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestCheckPasses(t *testing.T) {
	src := writeTree(t, map[string]string{"ok.yaml": validParticipant})
	code, out, _ := runCLI(t, "check", src, "--no-db", "--out", t.TempDir())
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "OK: 1 LRA participant class(es) checked")
}

func TestCheckFindingsExitCode(t *testing.T) {
	src := writeTree(t, map[string]string{"ok.yaml": validParticipant, "bad.yaml": brokenParticipant})
	code, out, _ := runCLI(t, "check", "--path", src, "--no-db", "--out", t.TempDir(), "--parallel", "4")
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, out, "[MISSING-TERMINATION-CALLBACK]")
	assert.Contains(t, out, "com.acme.Broken")
}

func TestCheckDisabledRule(t *testing.T) {
	src := writeTree(t, map[string]string{"bad.yaml": brokenParticipant})
	code, _, _ := runCLI(t, "check", src, "--no-db", "--out", t.TempDir(),
		"--disable", "missing-termination-callback")
	assert.Equal(t, exitOK, code)
}

func TestCheckDiscoveryFailed(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	code, _, errOut := runCLI(t, "check", missing, "--no-db", "--fail-when-path-not-exist")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut, "discovery failed")

	// tolerated when the flag is off: nothing to check, nothing found
	code, _, _ = runCLI(t, "check", missing, "--no-db", "--out", t.TempDir())
	assert.Equal(t, exitOK, code)
}

func TestCheckUsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "check", "--no-db")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "at least one path")

	code, _, _ = runCLI(t, "check", "--bogus")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "frobnicate")
	assert.Equal(t, exitUsage, code)
}

func TestUnsupportedDatabaseDriverIsUsageError(t *testing.T) {
	cfg := writeTree(t, map[string]string{"lracheck.yaml": "database:\n  driver: postgres\n"})
	src := writeTree(t, map[string]string{"ok.yaml": validParticipant})
	code, _, errOut := runCLI(t, "check", src, "--config", filepath.Join(cfg, "lracheck.yaml"))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "unsupported database driver")
}

func TestCheckPersistReportAndDiff(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lracheck.db")
	out := t.TempDir()

	bad := writeTree(t, map[string]string{"bad.yaml": brokenParticipant})
	code, _, _ := runCLI(t, "check", bad, "--db", db, "--out", out)
	require.Equal(t, exitFindings, code)

	good := writeTree(t, map[string]string{"ok.yaml": validParticipant})
	code, _, _ = runCLI(t, "check", good, "--db", db, "--out", out)
	require.Equal(t, exitOK, code)

	code, text, _ := runCLI(t, "report", "--db", db, "--out", out)
	require.Equal(t, exitOK, code)
	assert.Contains(t, text, "OK: 1")
	assert.Contains(t, text, ".html")

	code, _, errOut := runCLI(t, "report", "--db", db, "--out", out, "--run", "run-0")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut, "not found")

	store, err := storage.OpenSQLite(db)
	require.NoError(t, err)
	rows, err := store.ListRuns(10, 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, rows, 2)
	ids := []string{rows[1].ID, rows[0].ID} // oldest first

	for _, id := range ids {
		_, err := os.Stat(filepath.Join(out, id+".json"))
		assert.NoError(t, err)
	}

	code, diffOut, _ := runCLI(t, "diff", "--db", db, "--out", out, "--base", ids[0], "--head", ids[1])
	require.Equal(t, exitOK, code)
	assert.Contains(t, diffOut, "0 new, 1 removed, 0 changed")
}

func TestUserAdd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "users.db")
	code, out, _ := runCLI(t, "user", "add", "--db", db, "--username", "alice", "--password", "s3cret-pass", "--role", "admin")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "User alice created")

	code, _, _ = runCLI(t, "user", "add", "--db", db, "--username", "bob", "--password", "short")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "user", "add", "--db", db, "--username", "alice", "--password", "s3cret-pass")
	assert.Equal(t, exitFailure, code)
}

func TestRulesAndVersion(t *testing.T) {
	code, out, _ := runCLI(t, "rules")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "INCOMPLETE-ASYNC-HANDLING")
	assert.Contains(t, out, "java.net.URI lraId")

	code, out, _ = runCLI(t, "version")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "lracheck dev")
}
