package fixture

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

const ManifestSchemaVersion = "parity-manifest.v1"

// Manifest records what a fixture directory was generated from and the
// digests of its files.
type Manifest struct {
	SchemaVersion string       `json:"schema_version"`
	MatrixVersion string       `json:"matrix_version"`
	MatrixSHA256  string       `json:"matrix_sha256"`
	Locale        string       `json:"locale"`
	Cases         int          `json:"cases"`
	Accepted      int          `json:"accepted"`
	Rejected      int          `json:"rejected"`
	Files         []FileDigest `json:"files"`
}

// FileDigest is the digest pair of one fixture file. CanonicalSHA256 is
// taken over the RFC 8785 form of the file, so it is independent of the
// fixture layout.
type FileDigest struct {
	Name            string `json:"name"`
	Bytes           int    `json:"bytes"`
	SHA256          string `json:"sha256"`
	CanonicalSHA256 string `json:"canonical_sha256"`
}

func digestFile(name string, data []byte) (FileDigest, error) {
	canon, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return FileDigest{}, parityerr.Wrap(parityerr.InternalError, -1, "canonicalize "+name, err)
	}
	return FileDigest{
		Name:            name,
		Bytes:           len(data),
		SHA256:          sha256Hex(data),
		CanonicalSHA256: sha256Hex(canon),
	}, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Marshal renders the manifest as indented JSON with a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, parityerr.Wrap(parityerr.InternalError, -1, "marshal manifest", err)
	}
	return append(data, '\n'), nil
}

// LoadManifest reads the manifest of a fixture directory.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, parityerr.Wrap(parityerr.InternalIO, -1, "read manifest", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, parityerr.Wrap(parityerr.FixtureDecode, -1, "decode manifest", err)
	}
	if m.SchemaVersion != ManifestSchemaVersion {
		return nil, parityerr.Newf(parityerr.FixtureDecode, -1, "unsupported schema_version %q", m.SchemaVersion)
	}
	return &m, nil
}

// Check recomputes the digests of the files listed in the manifest and
// reports the first mismatch as drift.
func (m *Manifest) Check(dir string) error {
	if len(m.Files) == 0 {
		return parityerr.New(parityerr.FixtureDecode, -1, "manifest lists no files")
	}
	if m.Cases != m.Accepted+m.Rejected {
		return parityerr.Newf(parityerr.FixtureDecode, -1,
			"manifest counts disagree: cases=%d accepted=%d rejected=%d", m.Cases, m.Accepted, m.Rejected)
	}
	for _, f := range m.Files {
		data, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			if os.IsNotExist(err) {
				return parityerr.Newf(parityerr.FixtureDrift, -1, "%s is missing", f.Name)
			}
			return parityerr.Wrap(parityerr.InternalIO, -1, "read "+f.Name, err)
		}
		got, err := digestFile(f.Name, data)
		if err != nil {
			return err
		}
		if got.SHA256 != f.SHA256 {
			return parityerr.Newf(parityerr.FixtureDrift, -1, "%s sha256 mismatch: got=%s want=%s", f.Name, got.SHA256, f.SHA256)
		}
		if got.CanonicalSHA256 != f.CanonicalSHA256 {
			return parityerr.Newf(parityerr.FixtureDrift, -1, "%s canonical sha256 mismatch: got=%s want=%s", f.Name, got.CanonicalSHA256, f.CanonicalSHA256)
		}
	}
	return nil
}
