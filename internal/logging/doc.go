// Package logging provides leveled logging for the media inspector.
//
// The log level is read once from the LOG_LEVEL environment variable
// (debug, info, warn, error) with DEBUG=1 as a shortcut for debug level.
// Messages below the configured level are suppressed.
package logging
