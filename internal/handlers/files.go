package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// generatedName builds <prefix>_<utc timestamp>_<6 hex><ext>
func generatedName(prefix, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s_%s_%s%s", prefix, time.Now().UTC().Format("20060102_150405"), suffix, ext)
}

// sanitizeFilename keeps a client-provided name inside the upload dir.
func sanitizeFilename(name, extHint string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	stem, ext := name, strings.TrimPrefix(extHint, ".")
	if i := strings.LastIndex(name, "."); i > 0 {
		stem, ext = name[:i], name[i+1:]
	}
	stem = strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(stem)
	ext = strings.NewReplacer("/", "_", `\`, "_", ".", "").Replace(ext)
	if ext == "" {
		ext = "bin"
	}
	base := strings.Trim(stem+"."+ext, ".")
	if stem == "" || base == "" {
		return "upload." + ext
	}
	return base
}

// extensionFor picks a file extension from a declared MIME type, falling
// back to sniffing data.
func extensionFor(declared string, data []byte) string {
	if declared != "" {
		if m := mimetype.Lookup(declared); m != nil && m.Extension() != "" {
			return m.Extension()
		}
		if _, sub, ok := strings.Cut(declared, "/"); ok && sub != "" {
			return "." + sub
		}
	}
	if ext := mimetype.Detect(data).Extension(); ext != "" {
		return ext
	}
	return ".bin"
}

func save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
