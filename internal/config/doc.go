// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml, an optional .env file and
// GRADECALC_-prefixed environment variables. Environment variables win.
package config
