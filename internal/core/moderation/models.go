package moderation

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

const (
	ReportOpen      = "abierto"
	ReportResolved  = "resuelto"
	ReportDismissed = "descartado"
)

// Reportable content classes.
var TargetTypes = []string{"thread", "post", "article", "ad", "media", "user"}

type Report struct {
	ID         uuid.UUID  `json:"id"`
	ReporterID uuid.UUID  `json:"reporter_id"`
	TargetType string     `json:"target_type"`
	TargetID   uuid.UUID  `json:"target_id"`
	Reason     string     `json:"reason"`
	Details    string     `json:"details,omitempty"`
	Status     string     `json:"status"`
	ResolvedBy *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CreateReportRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"required"`
	Details    string `json:"details"`
}

type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReportResource lists moderation reports; moderators and admins only.
var ReportResource = listing.Resource{
	Table: "reports",
	Columns: []string{
		"id", "reporter_id", "target_type", "target_id", "reason",
		"details", "status", "resolved_by", "resolved_at", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"status":   {Kind: listing.SetMembership, Column: "status"},
		"type":     {Kind: listing.Equals, Column: "target_type"},
		"reporter": {Kind: listing.Equals, Column: "reporter_id"},
		"q":        {Kind: listing.Substring, Columns: []string{"reason", "details"}},
		"created":  {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created":  "created_at",
		"resolved": "resolved_at",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 50,
	MaxLimit:     100,
	TieBreak:     "id",
	MinViewer:    listing.ViewerPrivileged,
}

// AuditResource lists the admin audit trail.
var AuditResource = listing.Resource{
	Table: "audit_logs",
	Columns: []string{
		"id", "user_id", "action", "entity_type", "entity_id",
		"ip_address", "user_agent", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"action":  {Kind: listing.Equals, Column: "action"},
		"type":    {Kind: listing.Equals, Column: "entity_type"},
		"user":    {Kind: listing.Equals, Column: "user_id"},
		"created": {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created": "created_at",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 50,
	MaxLimit:     100,
	TieBreak:     "id",
	MinViewer:    listing.ViewerPrivileged,
}
