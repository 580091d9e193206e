package extension

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// Manifest holds the manifest.json fields activation cares about.
type Manifest struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ManifestVersion int    `json:"manifest_version"`
	Background      struct {
		ServiceWorker string   `json:"service_worker,omitempty"`
		Page          string   `json:"page,omitempty"`
		Scripts       []string `json:"scripts,omitempty"`
	} `json:"background"`
}

// ReadManifest loads <dir>/manifest.json
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	var m Manifest
	if err := sonic.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	if m.Name == "" || m.ManifestVersion == 0 {
		return nil, fmt.Errorf("%w: name and manifest_version are required", ErrManifest)
	}
	return &m, nil
}

// ID computes the id Chromium assigns to an unpacked extension loaded from
// absPath: the first 16 bytes of its SHA-256, hex encoded with digits 0-f
// mapped to a-p.
func ID(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	digits := []byte(hex.EncodeToString(sum[:16]))
	for i, d := range digits {
		if d >= 'a' {
			digits[i] = 'a' + 10 + (d - 'a')
		} else {
			digits[i] = 'a' + (d - '0')
		}
	}
	return string(digits)
}

// OriginURL is the chrome-extension:// origin for id
func OriginURL(id string) string {
	return "chrome-extension://" + id + "/"
}
