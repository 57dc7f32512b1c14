package forum

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

var Categories = []string{"general", "doma", "salto", "crianza", "veterinaria", "compraventa"}

type Thread struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	Pinned     bool      `json:"pinned"`
	Locked     bool      `json:"locked"`
	ReplyCount int       `json:"reply_count"`
	LastPostAt time.Time `json:"last_post_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type Post struct {
	ID        uuid.UUID `json:"id"`
	ThreadID  uuid.UUID `json:"thread_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateThreadRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// ThreadResource lists forum threads. Threads have no private rows, so no
// owner/public columns: visibility is trivially true but still resolved by
// the composer, never post-fetch.
var ThreadResource = listing.Resource{
	Table: "threads",
	Columns: []string{
		"id", "author_id", "title", "body", "category",
		"pinned", "locked", "reply_count", "last_post_at", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"category": {Kind: listing.Equals, Column: "category"},
		"author":   {Kind: listing.Equals, Column: "author_id"},
		"q":        {Kind: listing.Substring, Columns: []string{"title", "body"}},
		"created":  {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created":  "created_at",
		"replies":  "reply_count",
		"activity": "last_post_at",
	},
	DefaultSort:  "activity",
	DefaultOrder: "desc",
	DefaultLimit: 20,
	MaxLimit:     100,
	TieBreak:     "id",
}

// PostResource lists replies within one thread; the thread filter is
// injected by the service from the URL path.
var PostResource = listing.Resource{
	Table:   "posts",
	Columns: []string{"id", "thread_id", "author_id", "body", "created_at"},
	Filters: map[string]listing.FilterSpec{
		"thread": {Kind: listing.Equals, Column: "thread_id"},
		"author": {Kind: listing.Equals, Column: "author_id"},
	},
	SortFields: map[string]string{
		"created": "created_at",
	},
	DefaultSort:  "created",
	DefaultOrder: "asc",
	DefaultLimit: 50,
	MaxLimit:     100,
	TieBreak:     "id",
}
