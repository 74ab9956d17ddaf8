// Package config locates, loads and resolves the anchore-ctl configuration.
//
// # Location
//
// The config file is searched in order:
//
//   - $ANCHOREDATADIR/conf/config.yaml, or $HOME/.anchore/conf/config.yaml
//   - /etc/anchore/config.yaml
//
// When neither exists the first location is created and seeded from the
// example configuration bundled in the binary. Seeding never overwrites a
// file that is already present.
//
// # Merge
//
// The file is parsed as YAML and deep-merged over a copy of the defaults
// table:
//
//   - both sides mappings: merged key by key, recursively
//   - anything else: the file value wins
//   - lists are replaced wholesale, never merged element by element
//
// Keys the program does not know are kept and exposed through Extra.
//
// # Path Resolution
//
// image_data_store, feeds_dir and user_scripts_dir are made absolute by
// joining relative values onto anchore_data_dir. Absolute values are left
// untouched, so resolution is idempotent.
//
// # Construction
//
// Loader.Load runs locate, merge, resolve, typed decode, data store creation,
// user script bootstrap and the shell-utils sync, in that order. Any failure
// returns a nil *Config.
//
// Nothing here takes a lock. One process per data directory is assumed.
package config
