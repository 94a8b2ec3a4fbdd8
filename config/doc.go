// Package config is the public entry point to the resolved test-runner
// configuration.
//
// The document is resolved once per process from the built-in declaration,
// an optional config file and the environment:
//
//   - CI: "true" turns on failFast and verbose by default
//   - RUNCFG_CONFIG: path of a YAML or JSON file layered over the defaults
//   - RUNCFG_MAX_WORKERS: worker count ("4") or CPU share ("50%")
//   - RUNCFG_ROOT_DIR: directory substituted for <rootDir>
//
// Basic Usage:
//
//	doc, err := config.Get()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	workers := doc.WorkerConcurrency.Workers(runtime.NumCPU())
//
// Matching Files:
//
//	m, err := doc.Matchers()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if m.IsTestFile("src/app.test.ts") {
//	    // run it
//	}
//
// Configuration Errors:
//
// Resolution either succeeds completely or fails with a *ValidationErrors
// listing every problem. Each entry is a *ConfigurationError:
//
//	var cerr *config.ConfigurationError
//	if errors.As(err, &cerr) {
//	    log.Printf("%s: %s", cerr.Field, cerr.Message)
//	}
//
// The returned document is shared. Use Clone before modifying it.
package config
