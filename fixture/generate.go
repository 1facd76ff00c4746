package fixture

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/lattice-substrate/decimal-parity/locale"
	"github.com/lattice-substrate/decimal-parity/matrix"
	"github.com/lattice-substrate/decimal-parity/oracle"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Config controls one generation run.
type Config struct {
	Matrix *matrix.Matrix

	// Locale overrides the matrix locale when set.
	Locale string

	// Workers bounds concurrent evaluation. Values below 2 evaluate
	// sequentially.
	Workers int

	// Engine builds the pattern engine for the resolved symbols. Nil means
	// oracle.DecimalEngine.
	Engine func(locale.Symbols) oracle.Engine

	// Logger receives progress lines. Nil discards them.
	Logger *log.Logger
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard, "", 0)
}

// Result is a complete in-memory fixture set.
type Result struct {
	Matrix   *matrix.Matrix
	Symbols  locale.Symbols
	Cases    []oracle.FormatCase
	Tests    []byte
	Locale   []byte
	Manifest *Manifest
}

// Generate evaluates the whole matrix and encodes both fixture files and the
// manifest. Nothing is written to disk.
func Generate(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Matrix == nil {
		return nil, parityerr.New(parityerr.MatrixInvalid, -1, "no matrix configured")
	}
	tag := cfg.Locale
	if tag == "" {
		tag = cfg.Matrix.Locale()
	}
	syms, err := locale.Lookup(tag)
	if err != nil {
		return nil, err
	}
	m := cfg.Matrix.WithLocale(syms.Tag.String())
	lg := cfg.logger()

	localeJSON, err := EncodeLocale(syms)
	if err != nil {
		return nil, err
	}

	engine := oracle.DecimalEngine(syms)
	if cfg.Engine != nil {
		engine = cfg.Engine(syms)
	}
	lg.Printf("evaluating matrix %s: %d patterns x %d values under %s",
		m.Version(), len(m.Patterns()), len(m.Values()), m.Locale())
	cases, err := evaluate(ctx, oracle.New(engine), m.Cases(), cfg.Workers)
	if err != nil {
		return nil, err
	}

	testsJSON, err := EncodeCases(cases)
	if err != nil {
		return nil, err
	}
	man, err := buildManifest(m, cases, testsJSON, localeJSON)
	if err != nil {
		return nil, err
	}
	lg.Printf("evaluated %d cases: %d accepted, %d rejected", man.Cases, man.Accepted, man.Rejected)

	return &Result{
		Matrix:   m,
		Symbols:  syms,
		Cases:    cases,
		Tests:    testsJSON,
		Locale:   localeJSON,
		Manifest: man,
	}, nil
}

// evaluate runs every case. Each worker writes only the slot of its own
// case, so the result keeps matrix order regardless of scheduling.
func evaluate(ctx context.Context, o *oracle.Oracle, cases []matrix.Case, workers int) ([]oracle.FormatCase, error) {
	out := make([]oracle.FormatCase, len(cases))
	if workers < 2 {
		for _, c := range cases {
			if err := ctx.Err(); err != nil {
				return nil, canceled(err)
			}
			fc, err := o.EvaluateCase(c.Pattern, c.Value)
			if err != nil {
				return nil, fmt.Errorf("fixture: case %d: %w", c.Index, err)
			}
			out[c.Index] = fc
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range cases {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fc, err := o.EvaluateCase(c.Pattern, c.Value)
			if err != nil {
				return fmt.Errorf("fixture: case %d: %w", c.Index, err)
			}
			out[c.Index] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, canceled(ctx.Err())
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}
	return out, nil
}

func canceled(err error) error {
	return parityerr.Wrap(parityerr.InternalError, -1, "generation canceled", err)
}

func buildManifest(m *matrix.Matrix, cases []oracle.FormatCase, testsJSON, localeJSON []byte) (*Manifest, error) {
	digest, err := m.Digest()
	if err != nil {
		return nil, err
	}
	man := &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		MatrixVersion: m.Version(),
		MatrixSHA256:  digest,
		Locale:        m.Locale(),
		Cases:         len(cases),
	}
	for i := range cases {
		if cases[i].Success {
			man.Accepted++
		} else {
			man.Rejected++
		}
	}
	for _, f := range []struct {
		name string
		data []byte
	}{
		{LocaleFile, localeJSON},
		{TestsFile, testsJSON},
	} {
		d, err := digestFile(f.name, f.data)
		if err != nil {
			return nil, err
		}
		man.Files = append(man.Files, d)
	}
	return man, nil
}
