// Package config loads recruitmesh settings from a YAML file, an optional
// .env file and RECRUITMESH_* environment variables, in that order of
// increasing precedence.
package config
