// Package config loads the memocache configuration file.
//
// Load(path) reads the YAML file, applies defaults (10240 max entries,
// interval scheduler every 10s, INFO logging with a 1000-entry buffer, admin
// endpoint disabled), then validates the values. Default() returns the same
// defaults when no file is given.
package config
