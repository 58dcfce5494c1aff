// Package store defines the persistence interfaces the services depend on,
// together with the sentinel errors shared by all implementations.
// Concrete backends live under internal/platform.
package store
