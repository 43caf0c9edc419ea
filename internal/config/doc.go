// Package config defines the process-wide bot configuration.
//
// Configuration is loaded exactly once before the scheduler starts and is
// immutable afterwards; components receive it by value at construction.
// Two sources are supported: a YAML file with ${VAR} environment expansion
// (the primary deployment path) and a pure environment-variable fallback
// for container setups that ship no config file.
package config
