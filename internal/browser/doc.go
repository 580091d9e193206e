// Package browser launches a Chromium-family browser with remote debugging
// enabled and drives it with chromedp.
//
// Session.Start resolves the executable, builds the allocator flags
// (debugging port, profile, unpacked extension, headless) and lets chromedp
// start the process and attach to it. The returned Driver lists targets,
// loads unpacked extensions and runs browser-level cdproto actions; page-level
// work goes through chromedp.Run on Driver.Context.
//
// Example Usage:
//
//	session := browser.NewSession(browser.Config{Browser: browser.Edge, ExtensionPath: "./extension"}, logger)
//	driver, err := session.Start(ctx)
//	if err != nil {
//		return err
//	}
//	defer session.Stop()
//	targets, err := driver.Targets(ctx)
package browser
