package browser

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"
)

// flag is one command line switch. A true value renders as a bare switch.
type flag struct {
	name  string
	value any
}

// buildFlags renders the switches for one launch. extensionPath must already
// be absolute. The user data dir and binary are passed to chromedp separately.
func buildFlags(cfg Config, extensionPath string, port int) []flag {
	flags := []flag{
		{"remote-debugging-port", strconv.Itoa(port)},
		{"no-first-run", true},
		{"no-default-browser-check", true},
	}
	if cfg.ProfileDirectory != "" {
		flags = append(flags, flag{"profile-directory", cfg.ProfileDirectory})
	}
	if extensionPath != "" {
		flags = append(flags,
			flag{"load-extension", extensionPath},
			flag{"enable-unsafe-extension-debugging", true},
		)
		if !cfg.UseProfileExtensions {
			flags = append(flags, flag{"disable-extensions-except", extensionPath})
		}
	}
	if cfg.Headless {
		flags = append(flags, flag{"headless", "new"})
	}
	for _, arg := range cfg.ExtraArgs {
		if f, ok := parseFlag(arg); ok {
			flags = append(flags, f)
		}
	}
	return flags
}

// parseFlag turns "--name=value" or "--name" into a flag
func parseFlag(arg string) (flag, bool) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "-") {
		return flag{}, false
	}
	arg = strings.TrimLeft(arg, "-")
	if arg == "" {
		return flag{}, false
	}
	if name, value, ok := strings.Cut(arg, "="); ok {
		return flag{name, value}, true
	}
	return flag{arg, true}, true
}

// allocatorOptions builds the chromedp exec allocator options from scratch,
// without chromedp's defaults, which disable extensions.
func allocatorOptions(cfg Config, binary, userDataDir, extensionPath string, port int) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.ExecPath(binary),
		chromedp.UserDataDir(userDataDir),
		chromedp.WSURLReadTimeout(cfg.StartTimeout),
	}
	for _, f := range buildFlags(cfg, extensionPath, port) {
		opts = append(opts, chromedp.Flag(f.name, f.value))
	}
	return opts
}

func absExtensionPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}
