package calendar

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	apperrors "github.com/yanqian/tithi-calendar/pkg/errors"
)

// Service manages saved locations, preferences and range queries.
type Service struct {
	cfg        Config
	locations  LocationRepository
	records    DailyAstronomyRepository
	prefs      PreferenceStore
	builder    DatasetBuilder
	reconciler *Reconciler
	clock      func() time.Time
	logger     *slog.Logger
}

// NewService constructs a Service.
func NewService(cfg Config, locations LocationRepository, records DailyAstronomyRepository, prefs PreferenceStore, builder DatasetBuilder, reconciler *Reconciler, clock func() time.Time, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		cfg:        cfg,
		locations:  locations,
		records:    records,
		prefs:      prefs,
		builder:    builder,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger.With("component", "calendar.service"),
	}
}

// GetDailyAstronomy answers a range query using the current preferences.
func (s *Service) GetDailyAstronomy(ctx context.Context, req RangeRequest) (RangeResult, error) {
	return s.reconciler.GetDailyAstronomy(ctx, req)
}

// CreateLocation persists a saved location and generates its horizon dataset
// before returning. A failed generation removes the location again.
func (s *Service) CreateLocation(ctx context.Context, req CreateLocationRequest) (CreatedLocation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CreatedLocation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	coord, err := astronomy.NewCoordinate(req.Latitude, req.Longitude)
	if err != nil {
		return CreatedLocation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid coordinates", err)
	}

	loc, err := s.locations.Create(ctx, Location{
		Name:      name,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		CreatedAt: s.clock().UTC(),
	})
	if err != nil {
		return CreatedLocation{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create location", err)
	}

	start, end := s.CurrentHorizon()
	s.logger.Info("location created, generating horizon", "location_id", loc.ID, "start", astronomy.FormatDate(start), "end", astronomy.FormatDate(end))
	built, err := s.builder.Build(ctx, loc.ID, start, end)
	if err != nil {
		s.rollbackLocation(ctx, loc.ID)
		return CreatedLocation{}, apperrors.Wrap(apperrors.CodeGeneration, "failed to generate location dataset", err)
	}

	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return CreatedLocation{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load preferences", err)
	}
	if req.IsPrimary || prefs.ActiveLocationID == nil {
		if err := s.locations.SetPrimary(ctx, loc.ID); err != nil {
			return CreatedLocation{}, apperrors.Wrap(apperrors.CodeStorage, "failed to mark primary location", err)
		}
		loc.IsPrimary = true
		if err := s.prefs.SetActiveLocation(ctx, loc.ID); err != nil {
			return CreatedLocation{}, apperrors.Wrap(apperrors.CodeStorage, "failed to set active location", err)
		}
	}
	s.logger.Info("location ready", "location_id", loc.ID, "rows", built.Rows, "job_id", built.JobID)
	return CreatedLocation{Location: loc, JobID: built.JobID, Rows: built.Rows}, nil
}

func (s *Service) rollbackLocation(ctx context.Context, id int64) {
	if err := s.records.DeleteByLocation(ctx, id); err != nil {
		s.logger.Warn("rollback records failed", "location_id", id, "error", err)
	}
	if _, err := s.locations.Delete(ctx, id); err != nil {
		s.logger.Warn("rollback location failed", "location_id", id, "error", err)
	}
}

// ListLocations returns every saved location ordered by id.
func (s *Service) ListLocations(ctx context.Context) ([]Location, error) {
	locs, err := s.locations.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list locations", err)
	}
	if locs == nil {
		locs = []Location{}
	}
	return locs, nil
}

// GetLocation loads one saved location.
func (s *Service) GetLocation(ctx context.Context, id int64) (Location, error) {
	loc, found, err := s.locations.Get(ctx, id)
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load location", err)
	}
	if !found {
		return Location{}, apperrors.Wrap(apperrors.CodeNotFound, "location not found", nil)
	}
	return loc, nil
}

// DeleteLocation removes a saved location together with its rows. The last
// saved location cannot be removed. When the active location goes away the
// selection moves to a remaining location.
func (s *Service) DeleteLocation(ctx context.Context, id int64) error {
	if _, err := s.GetLocation(ctx, id); err != nil {
		return err
	}
	locs, err := s.ListLocations(ctx)
	if err != nil {
		return err
	}
	if len(locs) <= 1 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "cannot delete the last saved location", nil)
	}
	if _, err := s.locations.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to delete location", err)
	}
	if err := s.records.DeleteByLocation(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to delete location records", err)
	}

	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to load preferences", err)
	}
	if prefs.ActiveLocationID != nil && *prefs.ActiveLocationID == id {
		next := pickSuccessor(locs, id)
		if err := s.locations.SetPrimary(ctx, next.ID); err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "failed to mark primary location", err)
		}
		if err := s.prefs.SetActiveLocation(ctx, next.ID); err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "failed to set active location", err)
		}
		s.logger.Info("active location moved", "from", id, "to", next.ID)
	}
	s.logger.Info("location deleted", "location_id", id)
	return nil
}

// pickSuccessor prefers a remaining primary location, then the lowest id.
func pickSuccessor(locs []Location, removed int64) Location {
	var next Location
	for _, loc := range locs {
		if loc.ID == removed {
			continue
		}
		if loc.IsPrimary {
			return loc
		}
		if next.ID == 0 {
			next = loc
		}
	}
	return next
}

// SetActiveLocation selects the saved location used when no temporary
// location is set. The temporary location is left untouched.
func (s *Service) SetActiveLocation(ctx context.Context, id int64) (Preferences, error) {
	if _, err := s.GetLocation(ctx, id); err != nil {
		return Preferences{}, err
	}
	if err := s.prefs.SetActiveLocation(ctx, id); err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to set active location", err)
	}
	return s.Preferences(ctx)
}

// SetTemporaryLocation stores the ephemeral override.
func (s *Service) SetTemporaryLocation(ctx context.Context, req TemporaryLocationRequest) (Preferences, error) {
	coord, err := astronomy.NewCoordinate(req.Latitude, req.Longitude)
	if err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid coordinates", err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Current location"
	}
	tmp := TemporaryLocation{
		Name:      name,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		SetAt:     s.clock().UTC(),
	}
	if err := s.prefs.SetTemporaryLocation(ctx, tmp); err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to set temporary location", err)
	}
	return s.Preferences(ctx)
}

// ClearTemporaryLocation reverts range queries to the active saved location.
func (s *Service) ClearTemporaryLocation(ctx context.Context) (Preferences, error) {
	if err := s.prefs.ClearTemporaryLocation(ctx); err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to clear temporary location", err)
	}
	return s.Preferences(ctx)
}

// Preferences returns the current selection state.
func (s *Service) Preferences(ctx context.Context) (Preferences, error) {
	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load preferences", err)
	}
	return prefs, nil
}

// EnsureDefaultLocation makes sure the installation has a saved location and an
// active selection. It reports whether a location had to be created.
func (s *Service) EnsureDefaultLocation(ctx context.Context) (Location, bool, error) {
	locs, err := s.ListLocations(ctx)
	if err != nil {
		return Location{}, false, err
	}
	if len(locs) == 0 {
		def := s.cfg.DefaultLocation
		created, err := s.CreateLocation(ctx, CreateLocationRequest{
			Name:      def.Name,
			Latitude:  def.Latitude,
			Longitude: def.Longitude,
			IsPrimary: true,
		})
		if err != nil {
			return Location{}, false, err
		}
		return created.Location, true, nil
	}

	prefs, err := s.Preferences(ctx)
	if err != nil {
		return Location{}, false, err
	}
	if prefs.ActiveLocationID != nil {
		for _, loc := range locs {
			if loc.ID == *prefs.ActiveLocationID {
				return loc, false, nil
			}
		}
	}
	active := pickSuccessor(locs, 0)
	if err := s.prefs.SetActiveLocation(ctx, active.ID); err != nil {
		return Location{}, false, apperrors.Wrap(apperrors.CodeStorage, "failed to set active location", err)
	}
	s.logger.Info("active location restored", "location_id", active.ID)
	return active, false, nil
}

// ExtendHorizons generates the part of the rolling horizon not yet stored for
// every saved location. Locations are processed one after another.
func (s *Service) ExtendHorizons(ctx context.Context) (ExtendResult, error) {
	locs, err := s.ListLocations(ctx)
	if err != nil {
		return ExtendResult{}, err
	}
	start, end := s.CurrentHorizon()
	result := ExtendResult{Locations: len(locs)}
	for _, loc := range locs {
		from := start
		latest, ok, err := s.records.LatestDate(ctx, loc.ID)
		if err != nil {
			return result, apperrors.Wrap(apperrors.CodeStorage, "failed to read latest stored date", err)
		}
		if ok && !latest.Before(from) {
			from = latest.AddDate(0, 0, 1)
		}
		if from.After(end) {
			continue
		}
		built, err := s.builder.Build(ctx, loc.ID, from, end)
		if err != nil {
			return result, apperrors.Wrap(apperrors.CodeGeneration, "failed to extend location horizon", err)
		}
		result.Jobs++
		result.Rows += built.Rows
		s.logger.Info("horizon extended", "location_id", loc.ID, "from", astronomy.FormatDate(from), "rows", built.Rows)
	}
	return result, nil
}

// CurrentHorizon returns the range a saved location should cover today.
func (s *Service) CurrentHorizon() (time.Time, time.Time) {
	return Horizon(s.clock(), s.cfg.EpochYear, s.cfg.HorizonYears)
}
