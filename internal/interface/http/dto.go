package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
	"github.com/yanqian/tithi-calendar/internal/domain/generation"
	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
)

// Calendar dates leave the API as YYYY-MM-DD; instants keep RFC 3339.

type dailyAstronomyResponse struct {
	Date              string  `json:"date"`
	LocationID        *int64  `json:"locationId,omitempty"`
	PercentageVisible int     `json:"percentageVisible"`
	IsWaxing          bool    `json:"isWaxing"`
	Phase             *string `json:"phase"`
	Sunrise           *string `json:"sunrise"`
	Sunset            *string `json:"sunset"`
	Moonrise          *string `json:"moonrise"`
	Moonset           *string `json:"moonset"`
}

type rangeResponse struct {
	DailyAstronomy []dailyAstronomyResponse `json:"dailyAstronomy"`
	Count          int                      `json:"count"`
	Source         calendar.Source          `json:"source"`
}

func newRangeResponse(result calendar.RangeResult) rangeResponse {
	days := make([]dailyAstronomyResponse, 0, len(result.DailyAstronomy))
	for _, r := range result.DailyAstronomy {
		var phase *string
		if r.Phase != nil {
			name := string(*r.Phase)
			phase = &name
		}
		days = append(days, dailyAstronomyResponse{
			Date:              astronomy.FormatDate(r.Date),
			LocationID:        r.LocationID,
			PercentageVisible: r.PercentageVisible,
			IsWaxing:          r.IsWaxing,
			Phase:             phase,
			Sunrise:           r.Sunrise,
			Sunset:            r.Sunset,
			Moonrise:          r.Moonrise,
			Moonset:           r.Moonset,
		})
	}
	return rangeResponse{DailyAstronomy: days, Count: result.Count, Source: result.Source}
}

type jobResponse struct {
	ID            uuid.UUID         `json:"id"`
	LocationID    int64             `json:"locationId"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	Status        generation.Status `json:"status"`
	Rows          int               `json:"rows"`
	FailureReason *string           `json:"failureReason,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func newJobResponse(job generation.Job) jobResponse {
	return jobResponse{
		ID:            job.ID,
		LocationID:    job.LocationID,
		StartDate:     astronomy.FormatDate(job.StartDate),
		EndDate:       astronomy.FormatDate(job.EndDate),
		Status:        job.Status,
		Rows:          job.Rows,
		FailureReason: job.FailureReason,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

type occurrenceResponse struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Date      string       `json:"date"`
	Tithi     string       `json:"tithi"`
	Paksha    lunar.Paksha `json:"paksha"`
	Nakshatra *string      `json:"nakshatra,omitempty"`
	Notes     *string      `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func newOccurrenceResponse(occ lunar.Occurrence) occurrenceResponse {
	return occurrenceResponse{
		ID:        occ.ID,
		Title:     occ.Title,
		Date:      astronomy.FormatDate(occ.Date),
		Tithi:     occ.Tithi,
		Paksha:    occ.Paksha,
		Nakshatra: occ.Nakshatra,
		Notes:     occ.Notes,
		CreatedAt: occ.CreatedAt,
	}
}

type auditEntryResponse struct {
	Occurrence   occurrenceResponse `json:"occurrence"`
	DerivedTithi lunar.Tithi        `json:"derivedTithi"`
	PhaseAngle   float64            `json:"phaseAngle"`
	Agrees       bool               `json:"agrees"`
}

type auditResponse struct {
	Entries     []auditEntryResponse `json:"entries"`
	Total       int                  `json:"total"`
	Disagreeing int                  `json:"disagreeing"`
}

func newAuditResponse(report lunar.AuditReport) auditResponse {
	entries := make([]auditEntryResponse, 0, len(report.Entries))
	for _, e := range report.Entries {
		entries = append(entries, auditEntryResponse{
			Occurrence:   newOccurrenceResponse(e.Occurrence),
			DerivedTithi: e.DerivedTithi,
			PhaseAngle:   e.PhaseAngle,
			Agrees:       e.Agrees,
		})
	}
	return auditResponse{Entries: entries, Total: report.Total, Disagreeing: report.Disagreeing}
}
