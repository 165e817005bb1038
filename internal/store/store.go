// Package store holds the in-memory trip collection and its selection
// pointer. All mutations are atomic snapshot transitions guarded by a mutex,
// each followed by a full-snapshot save through the persistence layer.
package store

import (
	"errors"
	"sync"

	"github.com/viajafacil/viajafacil/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrTripNotFound is returned by child-collection operations whose
	// parent trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrDuplicateID is returned when creating a trip whose id collides
	// with an existing one.
	ErrDuplicateID = errors.New("trip id already exists")

	// ErrValidation marks a save rejected for a missing required field.
	// The caller keeps its form state; nothing is mutated.
	ErrValidation = errors.New("validation failed")
)

// Saver persists full snapshots of the trip collection.
type Saver interface {
	Save(trips []models.Trip) error
}

// Store is the single owner of the trip collection. It is explicitly
// constructed and threaded through the app, never a package-level singleton.
type Store struct {
	mu         sync.Mutex
	trips      []models.Trip
	selectedID string
	repo       Saver
	logger     *zap.Logger
}

// New creates a store over an initial collection. The collection is
// sanitized before use.
func New(initial []models.Trip, repo Saver, logger *zap.Logger) *Store {
	return &Store{
		trips:  models.SanitizeTrips(initial),
		repo:   repo,
		logger: logger,
	}
}

// persist saves the current snapshot. A save failure is logged and reported
// but does not roll back the in-memory state; the next mutation retries a
// full overwrite anyway.
func (s *Store) persist() error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(s.trips); err != nil {
		s.logger.Error("Failed to persist trips", zap.Error(err))
		return err
	}
	return nil
}

// Trips returns a copy of the collection.
func (s *Store) Trips() []models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trip, len(s.trips))
	copy(out, s.trips)
	return out
}

// Trip returns the trip with the given id.
func (s *Store) Trip(id string) (models.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trips {
		if t.ID == id {
			return t, true
		}
	}
	return models.Trip{}, false
}

// ActiveTrip resolves the current selection. A dangling selection (deleted or
// never-existing id) resolves to none; the caller falls back to the trip
// list.
func (s *Store) ActiveTrip() (models.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return models.Trip{}, false
	}
	for _, t := range s.trips {
		if t.ID == s.selectedID {
			return t, true
		}
	}
	return models.Trip{}, false
}

// CreateTrip appends a trip to the collection and makes it the active
// selection. A colliding id is rejected.
func (s *Store) CreateTrip(t models.Trip) (models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = models.NewID()
	}
	for _, existing := range s.trips {
		if existing.ID == t.ID {
			return models.Trip{}, ErrDuplicateID
		}
	}
	t.Sanitize()

	s.trips = append(s.trips, t)
	s.selectedID = t.ID
	s.logger.Info("Trip created", zap.String("trip_id", t.ID), zap.String("name", t.Name))
	_ = s.persist()
	return t, nil
}

// TripPatch is a partial top-level update. Nil fields are left untouched;
// set fields replace the trip's value wholesale (arrays included, no deep
// merge).
type TripPatch struct {
	Name                *string               `json:"name,omitempty"`
	Destinations        *[]models.Destination `json:"destinations,omitempty"`
	StartDate           *string               `json:"startDate,omitempty"`
	EndDate             *string               `json:"endDate,omitempty"`
	Budget              *float64              `json:"budget,omitempty"`
	ForeignCurrency     *string               `json:"foreignCurrency,omitempty"`
	DefaultExchangeRate *float64              `json:"defaultExchangeRate,omitempty"`
}

func (p TripPatch) apply(t *models.Trip) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Destinations != nil {
		t.Destinations = *p.Destinations
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Budget != nil {
		t.Budget = *p.Budget
	}
	if p.ForeignCurrency != nil {
		t.ForeignCurrency = *p.ForeignCurrency
	}
	if p.DefaultExchangeRate != nil {
		t.DefaultExchangeRate = *p.DefaultExchangeRate
	}
}

// UpdateTrip shallow-merges a patch into the matching trip. An unknown id is
// a silent no-op: callers are expected to supply a valid target.
func (s *Store) UpdateTrip(id string, patch TripPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == id {
			t := s.trips[i]
			patch.apply(&t)
			t.Sanitize()
			s.trips[i] = t
			_ = s.persist()
			return
		}
	}
	s.logger.Debug("UpdateTrip on unknown id ignored", zap.String("trip_id", id))
}

// DeleteTrip removes a trip. Deleting the selected trip clears the selection;
// no other trip is auto-selected.
func (s *Store) DeleteTrip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.trips[:0:0]
	for _, t := range s.trips {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == len(s.trips) {
		return
	}
	s.trips = filtered
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.logger.Info("Trip deleted", zap.String("trip_id", id))
	_ = s.persist()
}

// ReplaceAll swaps in a whole new collection, sanitized. Used for backup
// restore. The selection pointer is left as-is; ActiveTrip tolerates it
// dangling.
func (s *Store) ReplaceAll(trips []models.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = models.SanitizeTrips(trips)
	s.logger.Info("Trip collection replaced", zap.Int("count", len(s.trips)))
	_ = s.persist()
}

// SelectTrip sets the active selection.
func (s *Store) SelectTrip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// ClearSelection returns the app to the trip-list state.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// SelectedID returns the raw selection pointer, possibly dangling.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// mutateTrip runs fn against a deep copy of the matching trip and commits
// the copy on success. The copy owns fresh child arrays, so a failed
// operation leaves nothing half-applied and in-place element writes never
// alias a snapshot a concurrent reader is holding.
func (s *Store) mutateTrip(id string, fn func(*models.Trip) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == id {
			t := s.trips[i].Clone()
			if err := fn(&t); err != nil {
				return err
			}
			s.trips[i] = t
			_ = s.persist()
			return nil
		}
	}
	return ErrTripNotFound
}
