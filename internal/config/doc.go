// Package config defines the application configuration structure and its
// loading logic. Values come from an optional config.yaml and from
// environment variables prefixed with TASKGATE_, with the environment
// taking precedence.
package config
