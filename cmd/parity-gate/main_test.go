package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lattice-substrate/decimal-parity/fixture"
	"github.com/lattice-substrate/decimal-parity/matrix"
)

type fakeRunner struct {
	calls  []string
	failAt int
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ io.Writer, _ io.Writer) error {
	f.calls = append(f.calls, fmt.Sprintf("%s %v", name, args))
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return errors.New("boom")
	}
	return nil
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	r, err := fixture.Generate(context.Background(), fixture.Config{Matrix: matrix.Reference()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := fixture.Write(dir, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestRunHelp(t *testing.T) {
	fr := &fakeRunner{}
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run([]string{"--help"}, &out, &errOut, fr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(fr.calls) != 0 {
		t.Fatalf("expected no command invocations, got %d", len(fr.calls))
	}
}

func TestRunExecutesAllRequiredGates(t *testing.T) {
	fr := &fakeRunner{}
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run(nil, &out, &errOut, fr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%q", code, errOut.String())
	}
	if len(fr.calls) != len(requiredGateSteps) {
		t.Fatalf("expected %d calls, got %d", len(requiredGateSteps), len(fr.calls))
	}
	if !strings.Contains(out.String(), "all gates passed") {
		t.Fatalf("unexpected stdout %q", out.String())
	}
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	fr := &fakeRunner{failAt: 3}
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run(nil, &out, &errOut, fr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if len(fr.calls) != 3 {
		t.Fatalf("expected to stop at failing gate, got %d calls", len(fr.calls))
	}
	if !strings.Contains(errOut.String(), "gate failed: race tests") {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}
}

func TestRunUnknownArgument(t *testing.T) {
	fr := &fakeRunner{}
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run([]string{"--nope"}, &out, &errOut, fr)
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if len(fr.calls) != 0 {
		t.Fatalf("expected no command invocations, got %d", len(fr.calls))
	}
}

func TestRunWithFixtures(t *testing.T) {
	dir := writeFixtures(t)
	fr := &fakeRunner{}
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run([]string{"--fixtures", dir}, &out, &errOut, fr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%q", code, errOut.String())
	}
	// The manifest step runs in process; only the drift step shells out.
	if len(fr.calls) != len(requiredGateSteps)+1 {
		t.Fatalf("expected %d calls, got %d", len(requiredGateSteps)+1, len(fr.calls))
	}
	last := fr.calls[len(fr.calls)-1]
	if !strings.Contains(last, "./cmd/parity-gen verify --quiet --out "+dir) {
		t.Fatalf("unexpected drift invocation %q", last)
	}
	if !strings.Contains(out.String(), "[5/6] fixture manifest") {
		t.Fatalf("unexpected stdout %q", out.String())
	}
}

func TestRunFixtureManifestMismatch(t *testing.T) {
	dir := writeFixtures(t)
	if err := os.WriteFile(filepath.Join(dir, fixture.TestsFile), []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}
	fr := &fakeRunner{}
	var out bytes.Buffer
	var errOut bytes.Buffer
	code := run([]string{"--fixtures=" + dir}, &out, &errOut, fr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if len(fr.calls) != len(requiredGateSteps) {
		t.Fatalf("drift step must not run after a manifest failure, got %d calls", len(fr.calls))
	}
	if !strings.Contains(errOut.String(), "gate failed: fixture manifest") {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}
}
