package ads

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

const (
	CategoryCaballos   = "caballos"
	CategoryMonturas   = "monturas"
	CategoryTransporte = "transporte"
	CategoryEmpleo     = "empleo"
	CategoryOtros      = "otros"

	StatusActivo   = "activo"
	StatusVendido  = "vendido"
	StatusExpirado = "expirado"
	StatusPausado  = "pausado"
)

type Ad struct {
	ID          uuid.UUID              `json:"id"`
	OwnerID     uuid.UUID              `json:"owner_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Price       float64                `json:"price"`
	Category    string                 `json:"category"`
	Province    string                 `json:"province"`
	Status      string                 `json:"status"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	IsPublic    bool                   `json:"is_public"`
	CreatedAt   time.Time              `json:"created_at"`
	ExpiresAt   *time.Time             `json:"expires_at,omitempty"`
}

type CreateAdRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Price       float64                `json:"price" binding:"required"`
	Category    string                 `json:"category" binding:"required"`
	Province    string                 `json:"province" binding:"required"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// categorySchemas gate the free-form attributes payload per category.
var categorySchemas = map[string]map[string]interface{}{
	CategoryCaballos: {
		"type":     "object",
		"required": []interface{}{"raza", "edad"},
		"properties": map[string]interface{}{
			"raza":      map[string]interface{}{"type": "string", "minLength": 2},
			"edad":      map[string]interface{}{"type": "number", "minimum": 0, "maximum": 45},
			"altura_cm": map[string]interface{}{"type": "number", "minimum": 50},
			"papeles":   map[string]interface{}{"type": "boolean"},
			"doma":      map[string]interface{}{"type": "string"},
		},
	},
	CategoryMonturas: {
		"type": "object",
		"properties": map[string]interface{}{
			"tipo":   map[string]interface{}{"type": "string"},
			"estado": map[string]interface{}{"type": "string", "enum": []interface{}{"nuevo", "usado"}},
		},
	},
	CategoryTransporte: {
		"type": "object",
		"properties": map[string]interface{}{
			"plazas":    map[string]interface{}{"type": "number", "minimum": 1},
			"matricula": map[string]interface{}{"type": "string"},
		},
	},
	CategoryEmpleo: {
		"type":     "object",
		"required": []interface{}{"puesto"},
		"properties": map[string]interface{}{
			"puesto":  map[string]interface{}{"type": "string"},
			"jornada": map[string]interface{}{"type": "string"},
		},
	},
	CategoryOtros: {},
}

// AdResource lists marketplace ads. Paused ads are private to their owner
// (is_public tracks status at write time).
var AdResource = listing.Resource{
	Table: "ads",
	Columns: []string{
		"id", "owner_id", "title", "description", "price", "category",
		"province", "status", "attributes", "is_public", "created_at", "expires_at",
	},
	Filters: map[string]listing.FilterSpec{
		"category": {Kind: listing.Equals, Column: "category"},
		"province": {Kind: listing.Equals, Column: "province"},
		"status":   {Kind: listing.SetMembership, Column: "status"},
		"q":        {Kind: listing.Substring, Columns: []string{"title", "description"}},
		"price":    {Kind: listing.Range, Column: "price"},
		"created":  {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created": "created_at",
		"price":   "price",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 20,
	MaxLimit:     100,
	OwnerColumn:  "owner_id",
	PublicColumn: "is_public",
	TieBreak:     "id",
}
