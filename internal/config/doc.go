// Package config loads, normalizes, and validates fathomsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FIFTYONE_API_KEY and GOOGLE_APPLICATION_CREDENTIALS. Command code obtains
// settings through this package so it always sees sanitized paths, canonical
// log formats, and clear validation errors before any work begins.
package config
