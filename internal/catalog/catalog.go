// ABOUTME: Tag catalog reconciling on-disk images with persisted tag rows
// ABOUTME: Holds the session's ordered records and serves id-keyed operations

package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pictag/pictag/internal/config"
	"github.com/pictag/pictag/internal/store"
)

// ErrNotFound is returned when no record exists for a given image ID.
var ErrNotFound = errors.New("image not found")

// ErrMissingField is returned by Store when required tag fields are absent.
var ErrMissingField = errors.New("missing tag data field")

// UpdatedFormat is the local-time, second-precision timestamp written to the
// updated column. The empty string marks a record as untagged.
const UpdatedFormat = "2006-01-02T15:04:05"

// Record is one image's tagging state. Tags holds the labels joined with the
// configured multi-separator; Updated is empty until the record is first
// stored with changed content.
type Record struct {
	ID      string
	Path    string
	Tags    string
	Remark  string
	Updated string
}

// Tagged reports whether the record has been stored at least once.
func (r Record) Tagged() bool { return r.Updated != "" }

// Catalog is the in-memory union of all images found on disk at startup and
// all rows already persisted. Discovery runs once; the ordering and the
// derived ID list are rebuilt only at initialization.
type Catalog struct {
	db     *store.DB
	logger *slog.Logger

	records []Record
	ids     []string
	pos     map[string]int
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS tags (
		id TEXT PRIMARY KEY,
		path TEXT UNIQUE NOT NULL,
		tags TEXT,
		remark TEXT,
		updated DATETIME
	)
`

// New builds the catalog: it opens the database, creates the tags table if
// absent, enumerates images under the configured root, merges them with the
// persisted rows and sorts the union by (updated, path) with untagged
// records first. Zero discovered images is a fatal error.
func New(ctx context.Context, cfg *config.Reader) (*Catalog, error) {
	logger := slog.Default().With("component", "catalog")

	db, err := store.Open(cfg.StringOr("database/path", "image_tags.db"))
	if err != nil {
		return nil, err
	}
	if _, err := db.Query(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("creating tags table: %w", err)
	}

	c := &Catalog{db: db, logger: logger}
	if err := c.load(ctx, cfg); err != nil {
		return nil, err
	}

	logger.Info("catalog initialized",
		"images", len(c.records),
		"tagged", len(c.DumpData()),
	)
	return c, nil
}

// load runs the one-time discovery and merge protocol.
func (c *Catalog) load(ctx context.Context, cfg *config.Reader) error {
	rootValue, err := cfg.Get("images/path", config.Value{}, config.NotFoundError)
	if err != nil {
		return err
	}
	root, ok := rootValue.AsString()
	if !ok {
		return fmt.Errorf("images/path must be a string, got %s", rootValue.Kind())
	}
	types := cfg.StringsOr("images/types", []string{"jpg"})

	found, err := discover(root, types)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("no images found in path %q of types: %s",
			root, strings.Join(types, ", "))
	}

	persisted, err := c.loadRows(ctx)
	if err != nil {
		return err
	}

	// Set-difference by path: files with a persisted row keep that row.
	known := make(map[string]bool, len(persisted))
	for _, rec := range persisted {
		known[rec.Path] = true
	}
	records := persisted
	for _, path := range found {
		if !known[path] {
			records = append(records, Record{ID: HashID(path), Path: path})
		}
	}

	return c.setRecords(records)
}

// setRecords sorts the merged records into the catalog's total order by
// (updated, path) and derives the positional index. Untagged records carry
// an empty Updated string, which sorts before any timestamp. Two distinct
// paths hashing to the same identifier is a fatal build error.
func (c *Catalog) setRecords(records []Record) error {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Updated != records[j].Updated {
			return records[i].Updated < records[j].Updated
		}
		return records[i].Path < records[j].Path
	})

	c.records = records
	c.ids = make([]string, len(records))
	c.pos = make(map[string]int, len(records))
	for i, rec := range records {
		if prev, ok := c.pos[rec.ID]; ok {
			return fmt.Errorf("identifier collision between %q and %q",
				c.records[prev].Path, rec.Path)
		}
		c.ids[i] = rec.ID
		c.pos[rec.ID] = i
	}
	return nil
}

// discover enumerates root/*.<type> for every accepted type.
func discover(root string, types []string) ([]string, error) {
	var found []string
	for _, t := range types {
		pattern := filepath.Join(root, "*."+t)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %q: %w", pattern, err)
		}
		found = append(found, matches...)
	}
	return found, nil
}

// loadRows reads every persisted tag row into typed records.
func (c *Catalog) loadRows(ctx context.Context) ([]Record, error) {
	result, err := c.db.Query(ctx, "SELECT id, path, tags, remark, updated FROM tags")
	if err != nil {
		return nil, fmt.Errorf("loading tag rows: %w", err)
	}

	records := make([]Record, 0, len(result.Table.Rows))
	for _, row := range result.Table.Rows {
		rec, err := recordFromRow(result.Table, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// FirstUntaggedID returns the ID of the first untagged record in catalog
// order, or the last record's ID when everything is tagged. The catalog is
// never empty after New, so indexing the ID list is safe.
func (c *Catalog) FirstUntaggedID() string {
	for _, rec := range c.records {
		if !rec.Tagged() {
			return rec.ID
		}
	}
	return c.ids[len(c.ids)-1]
}

// Get returns the record for the given image ID.
func (c *Catalog) Get(id string) (Record, error) {
	i, ok := c.pos[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.records[i], nil
}

// NextID returns the ID following id in catalog order, or the empty string
// at the upper boundary. An unknown id fails with ErrNotFound.
func (c *Catalog) NextID(id string) (string, error) {
	i, ok := c.pos[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if i+1 >= len(c.ids) {
		return "", nil
	}
	return c.ids[i+1], nil
}

// PrevID returns the ID preceding id in catalog order, or the empty string
// at the lower boundary. An unknown id fails with ErrNotFound.
func (c *Catalog) PrevID(id string) (string, error) {
	i, ok := c.pos[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if i == 0 {
		return "", nil
	}
	return c.ids[i-1], nil
}

const upsertSQL = `
	INSERT INTO tags (id, path, tags, remark, updated)
		VALUES (:id, :path, :tags, :remark, :updated)
	ON CONFLICT (id) DO UPDATE SET
		tags = excluded.tags,
		remark = excluded.remark,
		updated = excluded.updated
`

// Store applies updated tag data. The input must contain the keys "id",
// "tags" and "remark"; anything less fails with ErrMissingField. When the
// record is already tagged and the incoming tags and remark both match it,
// the call is a no-op: no timestamp change, no write. Otherwise — including
// an all-empty first save on an untagged record — the record is stamped
// with the current local time, mutated in place and upserted by primary
// key. Path is immutable and carried forward from the existing record.
func (c *Catalog) Store(ctx context.Context, data map[string]string) error {
	var missing []string
	for _, key := range []string{"id", "tags", "remark"} {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	i, ok := c.pos[data["id"]]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, data["id"])
	}
	rec := &c.records[i]

	// The first store on an untagged record always counts as a change, even
	// with empty tags and remark: saving "reviewed, nothing applies" must
	// still stamp the record.
	if rec.Tagged() && data["tags"] == rec.Tags && data["remark"] == rec.Remark {
		c.logger.Debug("tag data unchanged", "id", rec.ID)
		return nil
	}

	rec.Tags = data["tags"]
	rec.Remark = data["remark"]
	rec.Updated = time.Now().Format(UpdatedFormat)

	_, err := c.db.Query(ctx, upsertSQL,
		namedArgs(map[string]string{
			"id":      rec.ID,
			"path":    rec.Path,
			"tags":    rec.Tags,
			"remark":  rec.Remark,
			"updated": rec.Updated,
		})...,
	)
	if err != nil {
		return fmt.Errorf("storing tags for %q: %w", rec.ID, err)
	}

	c.logger.Info("stored tags", "id", rec.ID, "path", rec.Path)
	return nil
}

// DumpData returns all tagged records in current catalog order.
func (c *Catalog) DumpData() []Record {
	var tagged []Record
	for _, rec := range c.records {
		if rec.Tagged() {
			tagged = append(tagged, rec)
		}
	}
	return tagged
}

// All returns every record in catalog order.
func (c *Catalog) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records in the catalog.
func (c *Catalog) Len() int { return len(c.records) }

// HashID derives the stable identifier for an image path. It is a pure
// function of the path string, so IDs survive process restarts.
func HashID(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}
