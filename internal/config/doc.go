// Package config loads and validates application configuration.
//
// Values come from built-in defaults, an optional config.yaml file and
// environment variables prefixed with SCHOLAR_ (nested keys joined by
// underscores, e.g. SCHOLAR_AUTH_JWT_SECRET). Environment variables win.
// The result is validated with go-playground/validator struct tags before
// it is returned, so callers can rely on every field being in range.
package config
