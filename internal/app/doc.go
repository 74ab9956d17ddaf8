// Package app provides the application context for anchore-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
// There is no package-level instance: commands receive the App through
// their context.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config    *config.Config     // Merged and resolved configuration
//	    Archive   *archive.Manager   // Backup and restore
//	    Audit     *audit.Logger      // System event log
//	    Database  status.Database    // Status sources
//	    Feeds     status.Feeds
//	    Manifests status.Manifests
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a, err := app.New()
//
//	// Testing with custom dependencies
//	a, err := app.New(
//	    app.WithConfig(testConfig),
//	    app.WithStatus(db, feeds, manifests),
//	)
//
// # Passing the App to commands
//
//	ctx := app.NewContext(cmd.Context(), a)
//	a, ok := app.FromContext(ctx)
//
// # Available Options
//
//	WithConfig(cfg)                    // Already loaded configuration
//	WithLoaderOptions(opts...)         // Options for config.NewLoader
//	WithArchive(manager)               // Custom archive manager
//	WithAudit(logger)                  // Custom audit logger
//	WithStatus(db, feeds, manifests)   // Custom status sources
package app
