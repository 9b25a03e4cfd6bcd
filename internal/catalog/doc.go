// Package catalog is the core of pictag: it merges the images found on disk
// at startup with the tag rows already persisted, assigns each image a
// stable path-derived identifier, and maintains one navigable ordering over
// the merged set for the lifetime of the process.
//
// # Ordering
//
// Records sort by (updated, path). Untagged records carry an empty updated
// value and therefore come first; ties, including all-untagged, fall back to
// path order. The derived ID list is built once at initialization and is not
// resorted when a record is stored, so navigation stays stable within a
// session.
//
// # Lifecycle
//
// A record is created either by filesystem discovery (untagged, no database
// row yet) or by loading an existing row. It transitions to tagged the first
// time Store receives content that differs from the current state; that call
// stamps the updated timestamp and upserts the row by primary key. Records
// are never deleted.
//
// The catalog is constructed once at startup and passed to whatever layer
// issues requests; there is no ambient global state.
package catalog
