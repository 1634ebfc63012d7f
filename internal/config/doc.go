// Package config holds the crawl configuration: documented defaults, the
// flat Config struct populated from CLI flags, validation, and the optional
// .sitegraph YAML file with per-site overrides.
//
// Configuration flows through the application by dependency injection; there
// is no global state.
package config
