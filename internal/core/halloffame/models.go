package halloffame

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

const (
	StatusNominado   = "nominado"
	StatusConsagrado = "consagrado"
	StatusRetirado   = "retirado"
)

// ConsecrationVotes is the vote count at which a nominee enters the hall.
const ConsecrationVotes = 100

type Horse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Breed       string    `json:"breed"`
	Discipline  string    `json:"discipline"`
	Description string    `json:"description"`
	PhotoPath   string    `json:"photo_path,omitempty"`
	Status      string    `json:"status"`
	NominatedBy uuid.UUID `json:"nominated_by"`
	VoteCount   int       `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type NominateRequest struct {
	Name        string `json:"name" binding:"required"`
	Breed       string `json:"breed" binding:"required"`
	Discipline  string `json:"discipline" binding:"required"`
	Description string `json:"description" binding:"required"`
	PhotoPath   string `json:"photo_path"`
}

// HorseResource lists Hall of Fame horses. Everything is public; the
// interesting filters are breed/discipline facets, a multi-column text
// search and a vote-count range.
var HorseResource = listing.Resource{
	Table: "horses",
	Columns: []string{
		"id", "name", "breed", "discipline", "description",
		"photo_path", "status", "nominated_by", "vote_count", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"breed":      {Kind: listing.Equals, Column: "breed"},
		"discipline": {Kind: listing.Equals, Column: "discipline"},
		"status":     {Kind: listing.SetMembership, Column: "status"},
		"q":          {Kind: listing.Substring, Columns: []string{"name", "description"}},
		"votes":      {Kind: listing.Range, Column: "vote_count"},
	},
	SortFields: map[string]string{
		"votes":   "vote_count",
		"name":    "name",
		"created": "created_at",
	},
	DefaultSort:  "votes",
	DefaultOrder: "desc",
	DefaultLimit: 20,
	MaxLimit:     100,
	TieBreak:     "id",
}
