// Package config holds the configuration for a linkinator run.
//
// Configuration flows from CLI flags into a single Config struct that is
// passed through the application via dependency injection rather than
// global state. An optional YAML file (.linkinator) supplies defaults
// for crawl options; explicit flags always win over file values.
package config
