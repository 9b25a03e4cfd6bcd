// ABOUTME: Template rendering for the tagging page
// ABOUTME: Loads templates from the embedded filesystem and renders them

package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/pictag/pictag/internal/config"
)

// tagPageData feeds the tag_image template. Tags holds the record's current
// labels split on the configured separator; Shortcuts maps each available
// label to its keyboard shortcut.
type tagPageData struct {
	Title        string
	ID           string
	Remark       string
	Tags         []string
	AllTags      []string
	Shortcuts    map[string]string
	Question     string
	AllowRemarks bool
	MultiSelect  bool
	PrevImageID  string
	NextImageID  string
	MaxWidth     int
	MaxHeight    int
	TaggedCount  int
	TotalCount   int
}

// Selected reports whether the record currently carries the given tag.
func (d tagPageData) Selected(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// renderTagPage renders the tagging page for one image.
func (s *Server) renderTagPage(w http.ResponseWriter, imageID string) {
	rec, err := s.catalog.Get(imageID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	shortcutsValue, _ := s.cfg.Get("tagging/tags", config.Value{}, config.NotFoundSilent)
	shortcuts, ok := shortcutsValue.AsMapping()
	if !ok || len(shortcuts) == 0 {
		s.logger.Error("no tags configured", "key", "tagging/tags")
		http.Error(w, "could not read any tags from the configuration file",
			http.StatusInternalServerError)
		return
	}
	keys := make(map[string]string, len(shortcuts))
	for label, v := range shortcuts {
		if key, ok := v.AsString(); ok {
			keys[label] = key
		}
	}

	var tags []string
	if rec.Tags != "" {
		sep := s.cfg.StringOr("tagging/multi-separator", ", ")
		tags = strings.Split(rec.Tags, sep)
	}

	// Boundary lookups cannot fail here: the ID was just resolved by Get.
	prev, _ := s.catalog.PrevID(imageID)
	next, _ := s.catalog.NextID(imageID)

	data := tagPageData{
		Title:        "Tag images",
		ID:           rec.ID,
		Remark:       rec.Remark,
		Tags:         tags,
		AllTags:      shortcutsValue.Keys(),
		Shortcuts:    keys,
		Question:     s.cfg.StringOr("tagging/tag question", "Select tags:"),
		AllowRemarks: s.cfg.BoolOr("tagging/allow remarks", false),
		MultiSelect:  s.cfg.BoolOr("tagging/multi-select", false),
		PrevImageID:  prev,
		NextImageID:  next,
		MaxWidth:     s.cfg.IntOr("interface/max_width", 600),
		MaxHeight:    s.cfg.IntOr("interface/max_height", 700),
		TaggedCount:  len(s.catalog.DumpData()),
		TotalCount:   s.catalog.Len(),
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/tag_image.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render tag page", "error", err)
	}
}
