package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
)

// Source tags which path produced a range result.
type Source string

const (
	SourceSaved     Source = "saved"
	SourceTemporary Source = "temporary"
)

// Location is a persisted place that owns a precomputed astronomy dataset.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Coordinate returns the location position.
func (l Location) Coordinate() astronomy.Coordinate {
	return astronomy.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// TemporaryLocation is an ephemeral place held only in preference state.
type TemporaryLocation struct {
	Name      string    `json:"name"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	SetAt     time.Time `json:"setAt"`
}

// Coordinate returns the temporary position.
func (t TemporaryLocation) Coordinate() astronomy.Coordinate {
	return astronomy.Coordinate{Latitude: t.Latitude, Longitude: t.Longitude}
}

// Preferences is the single-user selection state read by the reconciler.
type Preferences struct {
	ActiveLocationID  *int64             `json:"activeLocationId"`
	TemporaryLocation *TemporaryLocation `json:"temporaryLocation"`
}

// RangeRequest carries ISO calendar dates; both bounds are required.
type RangeRequest struct {
	StartDate string
	EndDate   string
}

// RangeResult is the shape returned by both reconciler paths.
type RangeResult struct {
	DailyAstronomy []astronomy.DailyRecord `json:"dailyAstronomy"`
	Count          int                     `json:"count"`
	Source         Source                  `json:"source"`
}

// CreateLocationRequest describes a new saved location.
type CreateLocationRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	IsPrimary bool    `json:"isPrimary"`
}

// CreatedLocation is returned once the location dataset has been generated.
type CreatedLocation struct {
	Location Location  `json:"location"`
	JobID    uuid.UUID `json:"jobId"`
	Rows     int       `json:"rows"`
}

// TemporaryLocationRequest sets the ephemeral override.
type TemporaryLocationRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// BuildResult reports a finished bulk generation.
type BuildResult struct {
	JobID uuid.UUID
	Rows  int
}

// ExtendResult summarizes a horizon maintenance run.
type ExtendResult struct {
	Locations int `json:"locations"`
	Jobs      int `json:"jobs"`
	Rows      int `json:"rows"`
}
