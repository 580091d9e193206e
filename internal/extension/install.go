package extension

import (
	"errors"
	"path/filepath"

	"github.com/GriffinCanCode/runyx-bridge/internal/project"
)

// ImportPath is where the extension's service worker looks for a project
// to import on startup, relative to the extension root.
const ImportPath = "local/import.json"

// Install writes file into the extension so it is imported on next start and
// returns the written path.
func Install(file *project.File, extensionDir string) (string, error) {
	if file == nil {
		return "", errors.New("install: nil project")
	}
	dest := filepath.Join(extensionDir, filepath.FromSlash(ImportPath))
	if err := file.Write(dest); err != nil {
		return "", err
	}
	return dest, nil
}
