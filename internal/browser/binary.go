package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

var (
	lookPath   = exec.LookPath
	fileExists = func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	}
)

// ResolveBinary returns the executable for browser. An explicit path wins
// and must exist; otherwise well-known install locations and PATH are tried.
func ResolveBinary(browser, explicit string) (string, error) {
	if explicit != "" {
		if fileExists(explicit) {
			return explicit, nil
		}
		if path, err := lookPath(explicit); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, explicit)
	}

	for _, candidate := range binaryCandidates(browser, runtime.GOOS) {
		if filepath.IsAbs(candidate) {
			if fileExists(candidate) {
				return candidate, nil
			}
			continue
		}
		if path, err := lookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no %s installation found", ErrBinaryNotFound, browser)
}

func binaryCandidates(browser, goos string) []string {
	switch goos {
	case "darwin":
		switch browser {
		case Chrome:
			return []string{"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"}
		case Edge:
			return []string{"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"}
		case Chromium:
			return []string{"/Applications/Chromium.app/Contents/MacOS/Chromium"}
		}
	case "windows":
		roots := []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)"), os.Getenv("LOCALAPPDATA")}
		var rel, exe string
		switch browser {
		case Chrome:
			rel, exe = filepath.Join("Google", "Chrome", "Application", "chrome.exe"), "chrome.exe"
		case Edge:
			rel, exe = filepath.Join("Microsoft", "Edge", "Application", "msedge.exe"), "msedge.exe"
		case Chromium:
			rel, exe = filepath.Join("Chromium", "Application", "chrome.exe"), "chromium.exe"
		default:
			return nil
		}
		out := make([]string, 0, len(roots)+1)
		for _, root := range roots {
			if root != "" {
				out = append(out, filepath.Join(root, rel))
			}
		}
		return append(out, exe)
	default:
		switch browser {
		case Chrome:
			return []string{"google-chrome", "google-chrome-stable", "chrome"}
		case Edge:
			return []string{"microsoft-edge", "microsoft-edge-stable", "msedge"}
		case Chromium:
			return []string{"chromium", "chromium-browser"}
		}
	}
	return nil
}

// SystemUserDataDir is the browser's default user data directory for the
// current user.
func SystemUserDataDir(browser string) (string, error) {
	return systemUserDataDir(browser, runtime.GOOS)
}

func systemUserDataDir(browser, goos string) (string, error) {
	var parts []string
	switch goos {
	case "darwin":
		base := map[string]string{
			Chrome:   filepath.Join("Google", "Chrome"),
			Edge:     "Microsoft Edge",
			Chromium: "Chromium",
		}[browser]
		if base == "" {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, browser)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		parts = []string{home, "Library", "Application Support", base}
	case "windows":
		base := map[string]string{
			Chrome:   filepath.Join("Google", "Chrome"),
			Edge:     filepath.Join("Microsoft", "Edge"),
			Chromium: "Chromium",
		}[browser]
		if base == "" {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, browser)
		}
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			return "", fmt.Errorf("LOCALAPPDATA is not set")
		}
		parts = []string{local, base, "User Data"}
	default:
		base := map[string]string{
			Chrome:   "google-chrome",
			Edge:     "microsoft-edge",
			Chromium: "chromium",
		}[browser]
		if base == "" {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, browser)
		}
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		parts = []string{configDir, base}
	}
	return filepath.Join(parts...), nil
}
