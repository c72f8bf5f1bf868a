// Package store is a content-addressed archive of serialized modules on
// SQLite. Saving is idempotent: a module whose canonical envelope hashes
// the same as an archived one is never stored twice.
package store
