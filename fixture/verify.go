package fixture

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Verify regenerates the fixtures in memory and compares them byte for byte
// with the files in dir. Any difference, including a missing file, is a
// FIXTURE_DRIFT failure. The regenerated result is returned either way.
func Verify(ctx context.Context, dir string, cfg Config) (*Result, error) {
	r, err := Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	manifest, err := r.Manifest.Marshal()
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		data []byte
	}{
		{LocaleFile, r.Locale},
		{TestsFile, r.Tests},
		{ManifestFile, manifest},
	} {
		got, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			if os.IsNotExist(err) {
				return r, parityerr.Newf(parityerr.FixtureDrift, -1, "%s is missing", f.name)
			}
			return r, parityerr.Wrap(parityerr.InternalIO, -1, "read "+f.name, err)
		}
		if !bytes.Equal(got, f.data) {
			return r, parityerr.Newf(parityerr.FixtureDrift, -1, "%s differs from regenerated output at byte %d (sha256 got=%s want=%s)",
				f.name, firstDiff(got, f.data), sha256Hex(got), sha256Hex(f.data))
		}
	}
	return r, nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
