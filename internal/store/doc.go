// Package store is the in-memory TTL store for processed datasets and the
// per-user session index over them.
package store
