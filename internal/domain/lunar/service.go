package lunar

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	apperrors "github.com/yanqian/tithi-calendar/pkg/errors"
)

// Service tags occurrences and audits them against the computed moon phase.
// Stored labels are never rewritten.
type Service struct {
	repo   OccurrenceRepository
	clock  func() time.Time
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo OccurrenceRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		clock:  time.Now,
		logger: logger.With("component", "lunar.service"),
	}
}

// Tag validates and stores a manual lunar assignment.
func (s *Service) Tag(ctx context.Context, req TagRequest) (Occurrence, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Occurrence{}, apperrors.Wrap(apperrors.CodeInvalidInput, "title cannot be empty", nil)
	}
	date, err := astronomy.ParseDate(req.Date)
	if err != nil {
		return Occurrence{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be YYYY-MM-DD", err)
	}
	paksha, ok := ParsePaksha(req.Paksha)
	if !ok {
		return Occurrence{}, apperrors.Wrap(apperrors.CodeInvalidInput, "paksha must be SHUKLA or KRISHNA", nil)
	}
	tithi, ok := LookupTithi(req.Tithi, paksha)
	if !ok {
		return Occurrence{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown tithi for paksha "+string(paksha), nil)
	}
	occ := Occurrence{
		Title:     title,
		Date:      date,
		Tithi:     tithi.Name,
		Paksha:    paksha,
		Notes:     trimmedOrNil(req.Notes),
		CreatedAt: s.clock().UTC(),
	}
	if req.Nakshatra != nil && strings.TrimSpace(*req.Nakshatra) != "" {
		name, ok := LookupNakshatra(*req.Nakshatra)
		if !ok {
			return Occurrence{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown nakshatra", nil)
		}
		occ.Nakshatra = &name
	}

	saved, err := s.repo.Create(ctx, occ)
	if err != nil {
		return Occurrence{}, apperrors.Wrap(apperrors.CodeStorage, "failed to store occurrence", err)
	}
	s.logger.Info("occurrence tagged", "occurrence_id", saved.ID, "date", astronomy.FormatDate(saved.Date), "tithi", saved.Tithi)
	return saved, nil
}

// List returns the occurrences of [start, end] ordered by date.
func (s *Service) List(ctx context.Context, startDate, endDate string) ([]Occurrence, error) {
	start, end, err := parseBounds(startDate, endDate)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListRange(ctx, start, end)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list occurrences", err)
	}
	if items == nil {
		items = []Occurrence{}
	}
	return items, nil
}

// Audit reports, for each occurrence in range, whether its manual tithi matches
// the one derived from the phase angle. Nothing is modified.
func (s *Service) Audit(ctx context.Context, startDate, endDate string) (AuditReport, error) {
	items, err := s.List(ctx, startDate, endDate)
	if err != nil {
		return AuditReport{}, err
	}
	report := AuditReport{Entries: make([]AuditEntry, 0, len(items)), Total: len(items)}
	for _, occ := range items {
		angle := astronomy.MoonIlluminationAt(astronomy.CivilDate(occ.Date)).PhaseAngle
		derived := TithiForPhaseAngle(angle)
		agrees := derived.Paksha == occ.Paksha && derived.Name == occ.Tithi
		if !agrees {
			report.Disagreeing++
		}
		report.Entries = append(report.Entries, AuditEntry{
			Occurrence:   occ,
			DerivedTithi: derived,
			PhaseAngle:   angle,
			Agrees:       agrees,
		})
	}
	return report, nil
}

func parseBounds(startDate, endDate string) (time.Time, time.Time, error) {
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "startDate and endDate are required", nil)
	}
	start, err := astronomy.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "startDate must be YYYY-MM-DD", err)
	}
	end, err := astronomy.ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate must be YYYY-MM-DD", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate precedes startDate", nil)
	}
	return start, end, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
