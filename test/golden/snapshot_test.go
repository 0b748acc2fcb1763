package golden

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/lracheck/internal/catalog"
	"github.com/codewithboateng/lracheck/internal/checker"
	"github.com/codewithboateng/lracheck/internal/discovery"
	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/rules"
)

var update = flag.Bool("update", false, "update golden snapshot")

// relative to the package directory, where go test runs
const goldenFile = "expected.txt"

const sampleParticipants = `types:
  - name: com.acme.golden.AsyncParticipant
    annotations: [LRA]
    methods:
      - name: compensate
        annotations: [Compensate, Path, PUT]
        params:
          - type: java.net.URI
          - type: javax.ws.rs.container.AsyncResponse
            annotations: [Suspended]
        returns: void

  - name: com.acme.golden.BaseParticipant
    abstract: true
    annotations: [LRA]
    methods:
      - name: compensate
        annotations: [Compensate]
        params: [{type: java.net.URI}, {type: java.net.URI}]

  - name: com.acme.golden.ChildParticipant
    superclass: com.acme.golden.BaseParticipant
    annotations: [LRA]
    methods:
      - name: after
        annotations: [AfterLRA]
        params: [{type: java.net.URI}, {type: java.net.URI}]

  - name: com.acme.golden.ConflictParticipant
    annotations: [LRA]
    methods:
      - name: end
        annotations: [Compensate, Complete]
        params: [{type: java.net.URI}, {type: java.net.URI}]

  - name: com.acme.golden.NoTermination
    annotations: [LRA]
    methods:
      - name: complete
        annotations: [Complete]
        params: [{type: java.lang.String}]

  - name: com.acme.golden.RestParticipant
    annotations: [LRA, Path]
    methods:
      - name: compensate
        annotations: [Compensate, Path, POST]
        params: [{type: java.net.URI}]
        returns: javax.ws.rs.core.Response
      - name: status
        annotations: [Status, Path]
        params: [{type: java.net.URI}]
        returns: org.eclipse.microprofile.lra.annotation.ParticipantStatus
      - name: forget1
        annotations: [Forget]
        params: [{type: java.net.URI}, {type: java.net.URI}]
      - name: forget2
        annotations: [Forget]
        params: [{type: java.net.URI}, {type: java.net.URI}]

  - name: com.acme.golden.Unrelated
    methods:
      - name: compensate
        annotations: [Compensate, Complete]
`

func discoverSample(t *testing.T) discovery.Result {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "participants.yaml"), []byte(sampleParticipants), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	res, err := discovery.Discover([]string{dir}, discovery.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	return res
}

func checkSample(t *testing.T, parallelism int) *catalog.Catalog {
	t.Helper()
	res := discoverSample(t)
	cat := catalog.New()
	if _, err := checker.Check(context.Background(), res.Classes, rules.NewEngine(rules.DefaultSettings()), cat,
		checker.Options{Parallelism: parallelism}); err != nil {
		t.Fatalf("check: %v", err)
	}
	return cat
}

func TestGolden_ReportSnapshot(t *testing.T) {
	got := []byte(checkSample(t, 1).FormatReport())

	if *update {
		if err := os.WriteFile(goldenFile, append(got, '\n'), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		t.Logf("updated %s", goldenFile)
		return
	}

	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden (%s): %v\nRun with: go test ./test/golden -run TestGolden_ReportSnapshot -args -update", goldenFile, err)
	}
	if !bytes.Equal(bytes.TrimSpace(got), bytes.TrimSpace(want)) {
		tmp := filepath.Join(t.TempDir(), "got.txt")
		_ = os.WriteFile(tmp, got, 0o644)
		t.Fatalf("golden mismatch.\n  golden: %s\n  actual: %s\nTip: update with\n  go test ./test/golden -run TestGolden_ReportSnapshot -count=1 -args -update", goldenFile, tmp)
	}
}

// A parallel run renders the same report once sorted.
func TestGolden_ParallelMatchesSnapshot(t *testing.T) {
	if *update {
		t.Skip("updating")
	}
	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	got := catalog.Format(checkSample(t, 4).Sorted())
	if got != string(bytes.TrimSpace(want)) {
		t.Fatalf("parallel report differs from snapshot:\n%s", got)
	}
}

func TestGolden_SkippedAndChains(t *testing.T) {
	res := discoverSample(t)
	if len(res.Skipped) != 1 || res.Skipped[0] != "com.acme.golden.BaseParticipant" {
		t.Fatalf("skipped = %v", res.Skipped)
	}
	if len(res.Classes) != 5 {
		t.Fatalf("classes = %d, want 5", len(res.Classes))
	}
	for _, c := range res.Classes {
		if c.Name == "com.acme.golden.ChildParticipant" {
			want := []model.TypeRef{c.Name, "com.acme.golden.BaseParticipant", discovery.RootType}
			if len(c.AncestorChain) != len(want) {
				t.Fatalf("chain = %v", c.AncestorChain)
			}
			for i := range want {
				if c.AncestorChain[i] != want[i] {
					t.Fatalf("chain = %v", c.AncestorChain)
				}
			}
		}
	}
}
