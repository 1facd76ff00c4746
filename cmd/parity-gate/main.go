// Command parity-gate runs the repository's required verification gates in
// order, optionally followed by drift checks against a committed fixture
// directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/lattice-substrate/decimal-parity/fixture"
)

type gateStep struct {
	label string
	args  []string
	check func() error
}

type commandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error
}

type realRunner struct{}

var requiredGateSteps = []gateStep{
	{label: "go vet", args: []string{"vet", "./..."}},
	{label: "unit tests", args: []string{"test", "./...", "-count=1", "-timeout=20m"}},
	{label: "race tests", args: []string{"test", "./...", "-race", "-count=1", "-timeout=25m"}},
	{label: "conformance", args: []string{"test", "./conformance", "-count=1", "-timeout=10m", "-v"}},
}

// fixtureSteps check a committed fixture directory: the manifest digests
// first, then a full regeneration compared byte for byte.
func fixtureSteps(dir string) []gateStep {
	return []gateStep{
		{label: "fixture manifest", check: func() error {
			m, err := fixture.LoadManifest(dir)
			if err != nil {
				return err
			}
			return m.Check(dir)
		}},
		{label: "fixture drift", args: []string{"run", "./cmd/parity-gen", "verify", "--quiet", "--out", dir}},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, realRunner{}))
}

func run(args []string, stdout, stderr io.Writer, runner commandRunner) int {
	fixtures := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			if err := writeUsage(stdout); err != nil {
				return 1
			}
			return 0
		case arg == "--fixtures" && i+1 < len(args):
			i++
			fixtures = args[i]
		case strings.HasPrefix(arg, "--fixtures="):
			fixtures = strings.TrimPrefix(arg, "--fixtures=")
		default:
			if err := writef(stderr, "error: unknown argument %q\n", arg); err != nil {
				return 1
			}
			if err := writeUsage(stderr); err != nil {
				return 1
			}
			return 2
		}
	}

	steps := append([]gateStep(nil), requiredGateSteps...)
	if fixtures != "" {
		steps = append(steps, fixtureSteps(fixtures)...)
	}

	ctx := context.Background()
	for i, step := range steps {
		if err := writef(stdout, "[%d/%d] %s\n", i+1, len(steps), step.label); err != nil {
			return 1
		}
		var err error
		if step.check != nil {
			err = step.check()
		} else {
			err = runner.Run(ctx, "go", step.args, stdout, stderr)
		}
		if err != nil {
			if writeErr := writef(stderr, "gate failed: %s: %v\n", step.label, err); writeErr != nil {
				return 1
			}
			return 1
		}
	}

	if err := writeLine(stdout, "all gates passed"); err != nil {
		return 1
	}
	return 0
}

func (realRunner) Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error {
	// #nosec G204 -- command and args are fixed repository gate invocations.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func writeUsage(w io.Writer) error {
	if err := writeLine(w, "usage: go run ./cmd/parity-gate [--fixtures dir] [--help]"); err != nil {
		return err
	}
	if err := writeLine(w, "runs: vet, tests, race, conformance"); err != nil {
		return err
	}
	return writeLine(w, "with --fixtures: manifest digests and regeneration drift for dir")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
