package fixture

import (
	"os"
	"path/filepath"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Write stores the result in dir, creating it if needed. Each file is
// written through a temp file and renamed into place; the manifest goes
// last, so a directory with a manifest always has complete fixture files.
func Write(dir string, r *Result) error {
	if r == nil || r.Manifest == nil {
		return parityerr.New(parityerr.InternalError, -1, "nothing to write")
	}
	manifest, err := r.Manifest.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "create output directory", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{LocaleFile, r.Locale},
		{TestsFile, r.Tests},
		{ManifestFile, manifest},
	}
	for _, f := range files {
		if err := writeAtomic(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

// writeAtomic writes data to path via temp file + rename. On failure the
// temp file is removed and the target is left untouched.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".parity-*.tmp")
	if err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "create temp file", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "close temp file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "chmod temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return parityerr.Wrap(parityerr.InternalIO, -1, "rename temp to final", err)
	}
	success = true

	syncDir(dir)
	return nil
}

// syncDir is best effort.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
