// Package listing implements the filtered listing composer shared by every
// list endpoint: declarative per-resource filter specs, viewer-based row
// visibility, allow-listed sorting and bounded pagination, with the count
// query derived from the same WHERE state as the row query.
package listing

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrPermissionDenied means the viewer may not list this resource class
	// at all, as opposed to getting an empty page from over-filtering.
	ErrPermissionDenied = errors.New("permission denied")
)

// Kind selects how a named request parameter becomes a predicate.
type Kind int

const (
	// Equals matches the column exactly.
	Equals Kind = iota
	// Substring matches case-insensitively anywhere in the column. When
	// Columns lists several columns the single search term is OR'ed across
	// them (multi-field text search), never AND'ed.
	Substring
	// Range reads two optional request parameters, "<name>_min" and
	// "<name>_max". An absent or malformed bound imposes no constraint.
	Range
	// SetMembership splits the value on commas and matches any element.
	SetMembership
)

// FilterSpec is one declarative filter rule. Resources contribute data,
// not per-route query-building code.
type FilterSpec struct {
	Kind    Kind
	Column  string
	Columns []string // Substring only; overrides Column when set
	Time    bool     // Range bounds are RFC3339 timestamps, not numbers
}

func (fs FilterSpec) columns() []string {
	if len(fs.Columns) > 0 {
		return fs.Columns
	}
	return []string{fs.Column}
}

// ViewerKind classifies the caller for row visibility.
type ViewerKind int

const (
	ViewerAnonymous ViewerKind = iota
	ViewerOwner
	ViewerPrivileged
)

// Viewer is the caller identity a list runs under.
type Viewer struct {
	Kind   ViewerKind
	UserID uuid.UUID
}

func Anonymous() Viewer              { return Viewer{Kind: ViewerAnonymous} }
func OwnerOf(id uuid.UUID) Viewer    { return Viewer{Kind: ViewerOwner, UserID: id} }
func Privileged(id uuid.UUID) Viewer { return Viewer{Kind: ViewerPrivileged, UserID: id} }

// Resource declares how one table is listed. OwnerColumn/PublicColumn
// drive the visibility predicate: with both set, private rows are visible
// to their owner and privileged viewers only; with only OwnerColumn set
// the resource is owner-private and anonymous listing fails closed; with
// neither set every row is public.
type Resource struct {
	Table        string
	Columns      []string
	Filters      map[string]FilterSpec
	SortFields   map[string]string // request name -> column, the allow-list
	DefaultSort  string            // key of SortFields
	DefaultOrder string            // "asc" or "desc", defaults to "desc"
	DefaultLimit int
	MaxLimit     int
	OwnerColumn  string
	PublicColumn string
	TieBreak     string // unique column keeping pagination stable on sort ties
	MinViewer    ViewerKind
}

func (r Resource) defaultLimit() int {
	if r.DefaultLimit > 0 {
		return r.DefaultLimit
	}
	return 20
}

func (r Resource) maxLimit() int {
	if r.MaxLimit > 0 {
		return r.MaxLimit
	}
	return 100
}

// Query is a parsed list request. Zero values fall back to resource
// defaults; out-of-bounds values are clamped, never rejected.
type Query struct {
	Filters   map[string]string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Page is the resource-agnostic list result. Total is nil when the count
// query failed but the row query succeeded.
type Page[T any] struct {
	Items   []T    `json:"items"`
	Total   *int   `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"has_more"`
}

func newPage[T any](limit, offset int) *Page[T] {
	return &Page[T]{Items: make([]T, 0, limit), Limit: limit, Offset: offset}
}
