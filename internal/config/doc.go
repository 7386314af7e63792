// Package config provides configuration structures and utilities for topsites.
// It defines the ranking parameters (grid size, candidate pool size, debounce
// window), the protected-scheme list, the curated fallback catalog, and the
// locations of the history database and configuration file.
package config
