package meta

import (
	"math"
	"strconv"
)

// Extension point names. Per-entity points are built with AuthorPoint,
// TermPoint and SingularPoint.
const (
	PointGlobal   = "meta"
	PointHome     = "home"
	PointAuthor   = "author"
	PointTerm     = "term"
	PointSingular = "singular"
)

// AuthorPoint names the extension point for a single author id.
func AuthorPoint(id int64) string {
	return PointAuthor + "_" + strconv.FormatInt(id, 10)
}

// TermPoint names the extension point for a taxonomy.
func TermPoint(taxonomy string) string {
	return PointTerm + "_" + taxonomy
}

// SingularPoint names the extension point for a post type.
func SingularPoint(postType string) string {
	return PointSingular + "_" + postType
}

// Filter receives the in-progress record and the view being rendered and
// returns the record to continue with.
type Filter func(rec Record, view View) Record

// ImageIDFilter transforms the fallback image id used for singular items
// that have no thumbnail of their own.
type ImageIDFilter func(id int64, post Post) int64

type registration struct {
	point  string
	filter Filter
}

// Hooks is an ordered list of filter registrations. The zero value has no
// registrations. Hooks is not safe for concurrent registration; register
// everything before serving.
type Hooks struct {
	filters      []registration
	imageFilters []ImageIDFilter
}

// Add registers f at point. Filters at the same point run in the order they
// were added.
func (h *Hooks) Add(point string, f Filter) {
	h.filters = append(h.filters, registration{point: point, filter: f})
}

// AddDefaultImageID registers a filter for the fallback image id.
func (h *Hooks) AddDefaultImageID(f ImageIDFilter) {
	h.imageFilters = append(h.imageFilters, f)
}

// Apply runs every filter registered at point over rec.
func (h *Hooks) Apply(point string, rec Record, view View) Record {
	if h == nil {
		return rec
	}
	for _, r := range h.filters {
		if r.point == point {
			rec = r.filter(rec, view)
		}
	}
	return rec
}

// DefaultImageID runs the fallback image id filters, starting from zero.
// Negative results are made positive; math.MinInt64 has no positive
// counterpart and becomes zero.
func (h *Hooks) DefaultImageID(post Post) int64 {
	var id int64
	if h == nil {
		return id
	}
	for _, f := range h.imageFilters {
		id = f(id, post)
	}
	switch {
	case id == math.MinInt64:
		id = 0
	case id < 0:
		id = -id
	}
	return id
}
