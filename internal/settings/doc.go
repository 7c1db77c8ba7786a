// Package settings implements the cached store for the single display settings record.
//
// The store reads through an in-process cache: the first Get loads the record from the
// repository, creating it with default values when the table is empty, and later reads are
// served from memory. Set validates a record, replaces the stored row and then the cached copy.
// The cache is never invalidated from outside, so only one instance should write to a database.
package settings
