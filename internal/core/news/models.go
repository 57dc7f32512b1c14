package news

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

type Article struct {
	ID          uuid.UUID  `json:"id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	CoverPath   string     `json:"cover_path,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateArticleRequest struct {
	Title     string `json:"title" binding:"required"`
	Summary   string `json:"summary" binding:"required"`
	Body      string `json:"body" binding:"required"`
	CoverPath string `json:"cover_path"`
}

type UpdateArticleRequest struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Body      string `json:"body"`
	CoverPath string `json:"cover_path"`
}

// ArticleResource lists news articles. Drafts (published = false) are
// visible only to their author and privileged viewers; the composer turns
// that into a query predicate, so drafts never leak into counts either.
var ArticleResource = listing.Resource{
	Table: "articles",
	Columns: []string{
		"id", "author_id", "title", "summary", "body",
		"cover_path", "published", "published_at", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"author":    {Kind: listing.Equals, Column: "author_id"},
		"q":         {Kind: listing.Substring, Columns: []string{"title", "summary", "body"}},
		"published": {Kind: listing.Range, Column: "published_at", Time: true},
	},
	SortFields: map[string]string{
		"published": "published_at",
		"created":   "created_at",
		"title":     "title",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 20,
	MaxLimit:     100,
	OwnerColumn:  "author_id",
	PublicColumn: "published",
	TieBreak:     "id",
}
