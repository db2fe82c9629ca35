// Package startup loads application configuration from the environment and
// validates directories before the server comes up.
package startup
