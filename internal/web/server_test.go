package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pictag/pictag/internal/catalog"
	"github.com/pictag/pictag/internal/config"
)

// setupServer builds a server over a two-image fixture directory.
func setupServer(t *testing.T) (*Server, *catalog.Catalog, *config.Reader) {
	t.Helper()
	dir := t.TempDir()

	imageDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imageDir, 0755))
	for _, name := range []string{"a.jpg", "b.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(imageDir, name), []byte("fake image "+name), 0644))
	}

	doc := fmt.Sprintf(`
database:
  path: %q
images:
  path: %q
tagging:
  multi-separator: ", "
  tag question: "What is in this picture?"
  allow remarks: true
  multi-select: true
  tags:
    cat: c
    dog: d
`, filepath.Join(dir, "tags.db"), imageDir)
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	cat, err := catalog.New(context.Background(), cfg)
	require.NoError(t, err)

	return New(cfg, cat), cat, cfg
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(t *testing.T, srv *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex_RedirectsToFirstUntagged(t *testing.T) {
	srv, cat, _ := setupServer(t)

	rec := get(t, srv, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?image_id="+cat.FirstUntaggedID(), rec.Header().Get("Location"))
}

func TestIndex_RendersTagPage(t *testing.T) {
	srv, cat, _ := setupServer(t)
	id := cat.FirstUntaggedID()

	rec := get(t, srv, "/?image_id="+id)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "What is in this picture?")
	assert.Contains(t, body, "/show_image?image_id="+id)
	assert.Contains(t, body, `name="tags" value="cat"`)
	assert.Contains(t, body, `name="tags" value="dog"`)
	assert.Contains(t, body, "<textarea", "remarks enabled in fixture config")
	assert.Contains(t, body, `type="checkbox"`, "multi-select enabled in fixture config")
}

func TestIndex_UnknownImage(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := get(t, srv, "/?image_id=deadbeef")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowImage_ServesFile(t *testing.T) {
	srv, cat, _ := setupServer(t)
	id := cat.FirstUntaggedID()

	rec := get(t, srv, "/show_image?image_id="+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake image a.jpg", rec.Body.String())
}

func TestStoreTags_SavesAndAdvances(t *testing.T) {
	srv, cat, _ := setupServer(t)
	id := cat.FirstUntaggedID()

	rec := postForm(t, srv, "/store_tags", url.Values{
		"id":     {id},
		"tags":   {"cat", "dog"},
		"remark": {"  spotted in the garden  "},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	next, err := cat.NextID(id)
	require.NoError(t, err)
	assert.Equal(t, "/?image_id="+next, rec.Header().Get("Location"))

	stored, err := cat.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "cat, dog", stored.Tags, "tags join on the configured separator")
	assert.Equal(t, "spotted in the garden", stored.Remark, "remark is trimmed")
	assert.True(t, stored.Tagged())
}

func TestStoreTags_LastImageRedirectsHome(t *testing.T) {
	srv, cat, _ := setupServer(t)

	first := cat.FirstUntaggedID()
	last, err := cat.NextID(first)
	require.NoError(t, err)

	rec := postForm(t, srv, "/store_tags", url.Values{
		"id": {last}, "tags": {"cat"}, "remark": {""},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestStoreTags_UnknownImage(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := postForm(t, srv, "/store_tags", url.Values{
		"id": {"deadbeef"}, "tags": {"cat"}, "remark": {""},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadTags_CSV(t *testing.T) {
	srv, cat, _ := setupServer(t)
	id := cat.FirstUntaggedID()

	require.NoError(t, cat.Store(context.Background(),
		map[string]string{"id": id, "tags": "cat", "remark": "x"}))

	rec := get(t, srv, "/image_tags.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2, "header plus the single tagged record")
	assert.Equal(t, "id,path,tags,remark,updated", lines[0])
	assert.Contains(t, lines[1], id)
	assert.Contains(t, lines[1], "a.jpg")
}

func TestDownloadTags_EmptyCatalog(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := get(t, srv, "/image_tags.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id,path,tags,remark,updated", strings.TrimSpace(rec.Body.String()))
}
