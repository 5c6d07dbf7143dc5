// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Every service subcommand loads the same Config and reads the
// sections it needs.
package config
