// Package config loads, normalizes, and validates folio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FOLIO_IPFS_API_KEY. The Config type centralizes every knob the workflow
// needs: chain endpoint and contract, identity provider selection and
// readiness poll bounds, pinning credentials, and journal location.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical provider names, and clear validation errors.
package config
