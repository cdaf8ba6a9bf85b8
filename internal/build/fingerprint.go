package build

import (
	"crypto/sha256"
	"encoding/hex"
	"gmi/internal/domain/config"
	"gmi/internal/ingest"
	"gopkg.in/yaml.v3"
	"os"
)

// Fingerprint identifies the inputs of one run. Two runs with the same
// RunHash produce the same export apart from timestamps.
type Fingerprint struct {
	ContentHash string
	ConfigHash  string
	RunHash     string
}

func (f *Fingerprint) ComputeRunHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ConfigHash))
	f.RunHash = hex.EncodeToString(h.Sum(nil))
}

// ContentHash hashes the ordered list of paths together with each file's
// content hash, so renames and reorderings change it too.
func ContentHash(files []ingest.SourceFile) (string, error) {
	h := sha256.New()
	for _, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			return "", err
		}
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(ingest.HashBytes(raw)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func ConfigHash(cfg config.Config) (string, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return ingest.HashBytes(raw), nil
}

func NewFingerprint(cfg config.Config, files []ingest.SourceFile) (Fingerprint, error) {
	var fp Fingerprint
	var err error
	if fp.ContentHash, err = ContentHash(files); err != nil {
		return fp, err
	}
	if fp.ConfigHash, err = ConfigHash(cfg); err != nil {
		return fp, err
	}
	fp.ComputeRunHash()
	return fp, nil
}
