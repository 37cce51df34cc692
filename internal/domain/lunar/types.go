package lunar

import (
	"context"
	"time"
)

// Occurrence is a calendar event tagged by hand with lunar attributes.
type Occurrence struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Tithi     string    `json:"tithi"`
	Paksha    Paksha    `json:"paksha"`
	Nakshatra *string   `json:"nakshatra,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagRequest carries a manual tithi assignment.
type TagRequest struct {
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	Tithi     string  `json:"tithi"`
	Paksha    string  `json:"paksha"`
	Nakshatra *string `json:"nakshatra"`
	Notes     *string `json:"notes"`
}

// AuditEntry compares the stored label with the tithi derived from the moon
// phase angle at noon UTC of the occurrence date.
type AuditEntry struct {
	Occurrence   Occurrence `json:"occurrence"`
	DerivedTithi Tithi      `json:"derivedTithi"`
	PhaseAngle   float64    `json:"phaseAngle"`
	Agrees       bool       `json:"agrees"`
}

// AuditReport summarizes an audit run.
type AuditReport struct {
	Entries     []AuditEntry `json:"entries"`
	Total       int          `json:"total"`
	Disagreeing int          `json:"disagreeing"`
}

// OccurrenceRepository persists tagged occurrences.
type OccurrenceRepository interface {
	Create(ctx context.Context, occ Occurrence) (Occurrence, error)
	ListRange(ctx context.Context, start, end time.Time) ([]Occurrence, error)
}
