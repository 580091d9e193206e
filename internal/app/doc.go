// Package app wires the whole runtime together: project import, bridge,
// browser session and extension activation.
//
// Start runs the steps strictly in order. A required import that fails stops
// everything before any transport binds; a browser that fails to launch takes
// the already started bridge down with it. Activation problems are only
// logged. Stop runs in reverse and always completes.
//
// Example Usage:
//
//	cfg := app.DefaultConfig()
//	cfg.ExtensionPath = "./extension"
//	cfg.ImportProjectPath = "my-project.json"
//	cfg.Browser.Browser = browser.Edge
//
//	a := app.New(cfg, app.WithLogger(logger), app.WithRegistry(registry))
//	if err := a.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package app
