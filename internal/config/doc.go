// Package config loads the pictag YAML configuration file and exposes it
// through slash-delimited key paths.
//
// A path like "images/path" descends through nested mappings one segment at
// a time. Lookups take a NotFound policy describing what a missing key means:
//
//   - NotFoundSilent: return the supplied default
//   - NotFoundWarn:   log a warning, return the supplied default
//   - NotFoundError:  fail with ErrKeyNotFound
//
// Values are represented by the Value union (scalar, sequence, mapping) so
// callers decide explicitly how to interpret each setting. Set mutates
// existing leaves only; it never creates intermediate keys.
package config
