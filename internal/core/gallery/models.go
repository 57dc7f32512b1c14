package gallery

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

type Album struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	MediaCount  int       `json:"media_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Media struct {
	ID          uuid.UUID `json:"id"`
	AlbumID     uuid.UUID `json:"album_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	FilePath    string    `json:"-"`
	ContentType string    `json:"content_type"`
	Caption     string    `json:"caption"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	// URL is the time-limited signed download link, set after paging.
	URL string `json:"url,omitempty"`
}

type CreateAlbumRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// AlbumResource: private albums visible to their owner and privileged
// viewers only.
var AlbumResource = listing.Resource{
	Table: "albums",
	Columns: []string{
		"id", "owner_id", "title", "description", "is_public", "media_count", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"owner":   {Kind: listing.Equals, Column: "owner_id"},
		"q":       {Kind: listing.Substring, Columns: []string{"title", "description"}},
		"created": {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created": "created_at",
		"title":   "title",
		"media":   "media_count",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 20,
	MaxLimit:     100,
	OwnerColumn:  "owner_id",
	PublicColumn: "is_public",
	TieBreak:     "id",
}

// MediaResource: media inherits the album's visibility flag at write time,
// so the row carries its own owner/public columns.
var MediaResource = listing.Resource{
	Table: "media",
	Columns: []string{
		"id", "album_id", "owner_id", "file_path", "content_type",
		"caption", "is_public", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"album":   {Kind: listing.Equals, Column: "album_id"},
		"type":    {Kind: listing.SetMembership, Column: "content_type"},
		"q":       {Kind: listing.Substring, Columns: []string{"caption"}},
		"created": {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created": "created_at",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 40,
	MaxLimit:     100,
	OwnerColumn:  "owner_id",
	PublicColumn: "is_public",
	TieBreak:     "id",
}
