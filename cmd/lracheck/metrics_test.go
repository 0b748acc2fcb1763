package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/lracheck/internal/metrics"
)

func TestCheckRecordsIntoServedMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := metrics.New()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go serveMetrics(ctx, ln, m, log)

	src := writeTree(t, map[string]string{"ok.yaml": validParticipant, "bad.yaml": brokenParticipant})
	cmd := newCheckCmd()
	cmd.SetContext(ctx)
	var out bytes.Buffer
	cmd.SetOut(&out)

	opts := checkOptions{paths: []string{src}, noDB: true, metrics: m}
	err = checkOnce(cmd, opts, log)
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, exitFindings, ee.code)

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, "lracheck_classes_checked_total 2")
	assert.Contains(t, body, `lracheck_findings_total{code="MISSING-TERMINATION-CALLBACK"} 1`)
	assert.Contains(t, body, `lracheck_runs_total{outcome="failed"} 1`)
}
