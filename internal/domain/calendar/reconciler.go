package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	apperrors "github.com/yanqian/tithi-calendar/pkg/errors"
	"github.com/yanqian/tithi-calendar/pkg/metrics"
)

// Reconciler serves daily astronomy from the stored dataset of the active saved
// location, or computes it on the fly for a temporary location. A temporary
// location always wins while it is set.
type Reconciler struct {
	locations LocationRepository
	records   DailyAstronomyRepository
	prefs     PreferenceStore
	generator *astronomy.Generator
	maxDays   int
	metrics   *metrics.Metrics
}

// NewReconciler wires the reconciler.
func NewReconciler(cfg Config, locations LocationRepository, records DailyAstronomyRepository, prefs PreferenceStore, generator *astronomy.Generator, m *metrics.Metrics) *Reconciler {
	return &Reconciler{
		locations: locations,
		records:   records,
		prefs:     prefs,
		generator: generator,
		maxDays:   cfg.MaxRangeDays,
		metrics:   m,
	}
}

// GetDailyAstronomy returns one record per civil day of the requested range.
func (r *Reconciler) GetDailyAstronomy(ctx context.Context, req RangeRequest) (RangeResult, error) {
	start, end, err := r.parseRange(req)
	if err != nil {
		return RangeResult{}, err
	}

	prefs, err := r.prefs.Load(ctx)
	if err != nil {
		return RangeResult{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load preferences", err)
	}

	var (
		records []astronomy.DailyRecord
		source  Source
	)
	if prefs.TemporaryLocation != nil {
		source = SourceTemporary
		records, err = r.computeTemporary(*prefs.TemporaryLocation, start, end)
	} else {
		source = SourceSaved
		records, err = r.loadSaved(ctx, prefs.ActiveLocationID, start, end)
	}
	if err != nil {
		return RangeResult{}, err
	}
	if records == nil {
		records = []astronomy.DailyRecord{}
	}
	r.metrics.ObserveRange(string(source), len(records))
	return RangeResult{DailyAstronomy: records, Count: len(records), Source: source}, nil
}

func (r *Reconciler) parseRange(req RangeRequest) (time.Time, time.Time, error) {
	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "startDate and endDate are required", nil)
	}
	start, err := astronomy.ParseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "startDate must be YYYY-MM-DD", err)
	}
	end, err := astronomy.ParseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate must be YYYY-MM-DD", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate precedes startDate", nil)
	}
	if r.maxDays > 0 && astronomy.DaysInRange(start, end) > r.maxDays {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date range is too long", astronomy.ErrRangeTooLong)
	}
	return start, end, nil
}

func (r *Reconciler) computeTemporary(loc TemporaryLocation, start, end time.Time) ([]astronomy.DailyRecord, error) {
	records, err := r.generator.GenerateRange(start, end, loc.Coordinate())
	if err != nil {
		return nil, generatorError(err)
	}
	return records, nil
}

func (r *Reconciler) loadSaved(ctx context.Context, activeID *int64, start, end time.Time) ([]astronomy.DailyRecord, error) {
	if activeID == nil {
		return nil, apperrors.Wrap(apperrors.CodeMissingConfiguration, "no active saved location and no temporary location configured", nil)
	}
	if _, found, err := r.locations.Get(ctx, *activeID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load active location", err)
	} else if !found {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "active location not found", nil)
	}
	records, err := r.records.ListRange(ctx, *activeID, start, end)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load daily astronomy", err)
	}
	return records, nil
}

// generatorError maps astronomy failures onto service error codes.
func generatorError(err error) error {
	switch {
	case errors.Is(err, astronomy.ErrInvalidCoordinate),
		errors.Is(err, astronomy.ErrInvalidRange),
		errors.Is(err, astronomy.ErrRangeTooLong):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid astronomy request", err)
	default:
		return apperrors.Wrap(apperrors.CodeGeneration, "daily astronomy generation failed", err)
	}
}
