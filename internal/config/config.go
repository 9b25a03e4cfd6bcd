// ABOUTME: Configuration loading and path-based lookup for pictag
// ABOUTME: Reads a YAML document once and serves slash-delimited get/set

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotFound selects what happens when a requested key is absent.
type NotFound string

const (
	// NotFoundSilent returns the supplied default without comment.
	NotFoundSilent NotFound = "silent"
	// NotFoundWarn logs a warning, then returns the supplied default.
	NotFoundWarn NotFound = "warn"
	// NotFoundError fails the lookup with ErrKeyNotFound.
	NotFoundError NotFound = "error"
)

// ErrKeyNotFound is returned for an absent key under NotFoundError.
var ErrKeyNotFound = errors.New("configuration key not found")

// ErrBadPolicy is returned for a NotFound value outside the recognized three.
// It applies regardless of whether the requested key exists.
var ErrBadPolicy = errors.New("invalid not-found policy")

// Reader holds a configuration document loaded once at construction.
type Reader struct {
	root   Value
	logger *slog.Logger
}

// Load reads and parses the YAML configuration file at path.
// An unreadable or unparseable file is a fatal startup condition
// and surfaces as an error here.
func Load(path string) (*Reader, error) {
	logger := slog.Default().With("component", "config")
	logger.Info("reading configuration", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &Reader{root: fromDecoded(doc), logger: logger}, nil
}

// checkKey validates the policy and applies it to a missing key.
// It reports whether the key is present in the mapping.
func (r *Reader) checkKey(parent Value, key string, notFound NotFound) (bool, error) {
	switch notFound {
	case NotFoundSilent, NotFoundWarn, NotFoundError:
	default:
		return false, fmt.Errorf("%w: %q (use silent, warn or error)", ErrBadPolicy, notFound)
	}

	if m, ok := parent.AsMapping(); ok {
		if _, ok := m[key]; ok {
			return true, nil
		}
	}

	switch notFound {
	case NotFoundError:
		return false, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	case NotFoundWarn:
		r.logger.Warn("configuration key not found", "key", key)
	}
	return false, nil
}

// Get resolves a slash-delimited path ("database/path") against the document,
// descending one segment at a time. A missing segment at any depth applies
// the notFound policy and short-circuits, returning def.
func (r *Reader) Get(path string, def Value, notFound NotFound) (Value, error) {
	parent := r.root
	segments := strings.Split(path, "/")
	for i, key := range segments {
		ok, err := r.checkKey(parent, key, notFound)
		if err != nil {
			return def, err
		}
		if !ok {
			return def, nil
		}
		m, _ := parent.AsMapping()
		if i == len(segments)-1 {
			return m[key], nil
		}
		parent = m[key]
	}
	return def, nil
}

// Set replaces the value of an existing leaf at the slash-delimited path.
// Intermediate keys are never created; a missing segment applies the
// notFound policy and reports false. Reports whether the mutation happened.
func (r *Reader) Set(path string, value Value, notFound NotFound) (bool, error) {
	parent := r.root
	segments := strings.Split(path, "/")
	for i, key := range segments {
		ok, err := r.checkKey(parent, key, notFound)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		m, _ := parent.AsMapping()
		if i == len(segments)-1 {
			m[key] = value
			return true, nil
		}
		parent = m[key]
	}
	return false, nil
}

// StringOr returns the string at path, or def when the key is absent
// or not a string scalar. Lookup is silent.
func (r *Reader) StringOr(path, def string) string {
	v, _ := r.Get(path, String(def), NotFoundSilent)
	if s, ok := v.AsString(); ok {
		return s
	}
	return def
}

// IntOr returns the integer at path, or def. Lookup is silent.
func (r *Reader) IntOr(path string, def int) int {
	v, _ := r.Get(path, Int(def), NotFoundSilent)
	if i, ok := v.AsInt(); ok {
		return i
	}
	return def
}

// BoolOr returns the boolean at path, or def. Lookup is silent.
func (r *Reader) BoolOr(path string, def bool) bool {
	v, _ := r.Get(path, Bool(def), NotFoundSilent)
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

// StringsOr returns the string sequence at path, or def. Lookup is silent.
func (r *Reader) StringsOr(path string, def []string) []string {
	v, _ := r.Get(path, Strings(def...), NotFoundSilent)
	if ss, ok := v.AsStrings(); ok {
		return ss
	}
	return def
}
