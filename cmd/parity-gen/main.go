// Command parity-gen generates and verifies decimal-format conformance
// fixtures, and inspects single patterns.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/lattice-substrate/decimal-parity/fixture"
	"github.com/lattice-substrate/decimal-parity/javafloat"
	"github.com/lattice-substrate/decimal-parity/locale"
	"github.com/lattice-substrate/decimal-parity/matrix"
	"github.com/lattice-substrate/decimal-parity/oracle"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

const usage = "usage: parity-gen <generate|verify|inspect> [options]"

const defaultOut = "tests"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	switch args[0] {
	case "generate":
		return cmdGenerate(ctx, args[1:], stderr)
	case "verify":
		return cmdVerify(ctx, args[1:], stderr)
	case "inspect":
		return cmdInspect(args[1:], stdout, stderr)
	case "--help", "-h":
		if err := writeLine(stdout, usage); err != nil {
			return exitInternal
		}
		return exitSuccess
	default:
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
}

type flags struct {
	out     string
	matrix  string
	locale  string
	pattern string
	hasPat  bool
	workers int
	quiet   bool
	help    bool
}

// valueOptions take an argument, either as the next word or after '='.
var valueOptions = map[string]bool{
	"--out": true, "--matrix": true, "--locale": true, "--workers": true, "--pattern": true,
}

// parseFlags accepts only the options named in allowed. Words that parse as
// numbers are positional even when they start with '-'.
func parseFlags(args []string, allowed ...string) (flags, []string, error) {
	f := flags{out: defaultOut, matrix: matrix.DefaultName, workers: 1}
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}

	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional || arg == "-" || !strings.HasPrefix(arg, "-") || isNumber(arg) {
			positional = append(positional, arg)
			continue
		}
		if arg == "--" {
			consumeAsPositional = true
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "-q":
			name = "--quiet"
		case "-h":
			name = "--help"
		}
		if !ok[name] {
			return flags{}, nil, parityerr.Newf(parityerr.CLIUsage, -1, "unknown option: %s", arg)
		}
		if !valueOptions[name] {
			if hasValue {
				return flags{}, nil, parityerr.Newf(parityerr.CLIUsage, -1, "option %s takes no value", name)
			}
			switch name {
			case "--quiet":
				f.quiet = true
			case "--help":
				f.help = true
			}
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return flags{}, nil, parityerr.Newf(parityerr.CLIUsage, -1, "option %s requires a value", name)
			}
			i++
			value = args[i]
		}
		switch name {
		case "--out":
			f.out = value
		case "--matrix":
			f.matrix = value
		case "--locale":
			f.locale = value
		case "--pattern":
			f.pattern, f.hasPat = value, true
		case "--workers":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return flags{}, nil, parityerr.Newf(parityerr.CLIUsage, -1, "--workers must be a positive integer, got %q", value)
			}
			f.workers = n
		}
	}
	return f, positional, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func cmdGenerate(ctx context.Context, args []string, stderr io.Writer) int {
	fl, positional, err := parseFlags(args, "--out", "--matrix", "--locale", "--workers", "--quiet", "--help")
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if fl.help {
		if err := writeGenerateHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if len(positional) > 0 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: unexpected argument %q\n", positional[0])
	}

	cfg, err := config(fl, stderr)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	r, err := fixture.Generate(ctx, cfg)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	cfg.Logger.Printf("writing %s and %s to %s", fixture.LocaleFile, fixture.TestsFile, fl.out)
	if err := fixture.Write(fl.out, r); err != nil {
		return writeClassifiedError(stderr, err)
	}
	cfg.Logger.Printf("done")
	return exitSuccess
}

func cmdVerify(ctx context.Context, args []string, stderr io.Writer) int {
	fl, positional, err := parseFlags(args, "--out", "--matrix", "--locale", "--workers", "--quiet", "--help")
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if fl.help {
		if err := writeVerifyHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if len(positional) > 0 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: unexpected argument %q\n", positional[0])
	}

	cfg, err := config(fl, stderr)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if _, err := fixture.Verify(ctx, fl.out, cfg); err != nil {
		return writeClassifiedError(stderr, err)
	}
	if !fl.quiet {
		if err := writeLine(stderr, "ok"); err != nil {
			return exitInternal
		}
	}
	return exitSuccess
}

func config(fl flags, stderr io.Writer) (fixture.Config, error) {
	m, err := matrix.Resolve(fl.matrix)
	if err != nil {
		return fixture.Config{}, err
	}
	out := stderr
	if fl.quiet {
		out = io.Discard
	}
	return fixture.Config{
		Matrix:  m,
		Locale:  fl.locale,
		Workers: fl.workers,
		Logger:  log.New(out, "parity-gen: ", 0),
	}, nil
}

func cmdInspect(args []string, stdout, stderr io.Writer) int {
	fl, positional, err := parseFlags(args, "--pattern", "--locale", "--help")
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if fl.help {
		if err := writeInspectHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if !fl.hasPat {
		return writeErrorAndReturn(stderr, exitInvalid, "error: --pattern is required\n")
	}
	pattern := fl.pattern

	values := make([]float64, 0, len(positional))
	for _, p := range positional {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return writeErrorAndReturn(stderr, exitInvalid, "error: invalid value %q\n", p)
		}
		values = append(values, v)
	}

	tag := fl.locale
	if tag == "" {
		tag = locale.DefaultTag
	}
	syms, err := locale.Lookup(tag)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	o := oracle.ForSymbols(syms)

	first := 0.0
	if len(values) > 0 {
		first = values[0]
	}
	a, err := o.Evaluate(pattern, first)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if !a.Accepted() {
		return writeErrorAndReturn(stderr, parityerr.PatternSyntax.ExitCode(), "error: %s\n", a.Reason)
	}
	if err := writeState(stdout, pattern, syms, a.State); err != nil {
		return exitInternal
	}
	for _, v := range values {
		a, err := o.Evaluate(pattern, v)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		if err := writef(stdout, "%s => %q\n", javafloat.AppendDouble(nil, v), a.State.Output); err != nil {
			return exitInternal
		}
	}
	return exitSuccess
}

func writeState(w io.Writer, pattern string, syms locale.Symbols, s *oracle.State) error {
	rows := []struct {
		key   string
		value string
	}{
		{"pattern", strconv.Quote(pattern)},
		{"locale", syms.Tag.String()},
		{"positivePrefix", strconv.Quote(s.PositivePrefix)},
		{"positiveSuffix", strconv.Quote(s.PositiveSuffix)},
		{"negativePrefix", strconv.Quote(s.NegativePrefix)},
		{"negativeSuffix", strconv.Quote(s.NegativeSuffix)},
		{"groupingUsed", strconv.FormatBool(s.GroupingUsed)},
		{"groupingSize", strconv.Itoa(s.GroupingSize)},
		{"maximumFractionDigits", strconv.Itoa(s.MaximumFractionDigits)},
		{"maximumIntegerDigits", strconv.Itoa(s.MaximumIntegerDigits)},
		{"minimumFractionDigits", strconv.Itoa(s.MinimumFractionDigits)},
		{"minimumIntegerDigits", strconv.Itoa(s.MinimumIntegerDigits)},
		{"multiplier", strconv.Itoa(s.Multiplier)},
		{"decimalSeparatorAlwaysShown", strconv.FormatBool(s.DecimalSeparatorAlwaysShown)},
		{"useExponentialNotation", strconv.FormatBool(s.UseExponentialNotation)},
	}
	for _, r := range rows {
		if err := writef(w, "%-28s %s\n", r.key+":", r.value); err != nil {
			return err
		}
	}
	return nil
}

func writeClassifiedError(stderr io.Writer, err error) int {
	if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
		return exitInternal
	}
	return parityerr.ClassOf(err).ExitCode()
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return exitInternal
	}
	return code
}

func writeGenerateHelp(w io.Writer) error {
	return writeLines(w,
		"usage: parity-gen generate [--out dir] [--matrix name|file] [--locale tag] [--workers n] [--quiet]",
		"  Evaluate the matrix and write locale.json, tests.json and manifest.json.",
		"  --out      Output directory (default "+defaultOut+")",
		"  --matrix   Built-in matrix ("+strings.Join(matrix.Names(), ", ")+") or a .yaml/.json file (default "+matrix.DefaultName+")",
		"  --locale   Locale tag; overrides the matrix locale",
		"  --workers  Concurrent evaluations (default 1)",
		"  --quiet    Suppress progress lines",
	)
}

func writeVerifyHelp(w io.Writer) error {
	return writeLines(w,
		"usage: parity-gen verify [--out dir] [--matrix name|file] [--locale tag] [--quiet]",
		"  Regenerate in memory and compare with the files in the output directory.",
		"  --quiet  Suppress success messages",
	)
}

func writeInspectHelp(w io.Writer) error {
	return writeLines(w,
		"usage: parity-gen inspect --pattern p [--locale tag] value...",
		"  Print the resolved properties of one pattern and format each value.",
	)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, l := range lines {
		if err := writeLine(w, l); err != nil {
			return err
		}
	}
	return nil
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
