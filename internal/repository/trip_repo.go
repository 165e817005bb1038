package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/viajafacil/viajafacil/internal/models"
	"github.com/viajafacil/viajafacil/pkg/database"
	"go.uber.org/zap"
)

// Storage keys. tripsKey holds the full serialized collection; legacyTripKey
// held a single trip document in the pre-multi-trip schema and is read once
// at startup, then deleted.
const (
	tripsKey      = "trips_v2"
	legacyTripKey = "trip_v1"
)

// TripRepository persists the trip collection as a JSON snapshot in the local
// key-value store.
type TripRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *database.DB, logger *zap.Logger) *TripRepository {
	return &TripRepository{
		db:     db,
		logger: logger,
	}
}

// legacyTrip is the single-trip document shape of the v1 schema. It carried
// one destination string instead of a destination list and had no activities.
type legacyTrip struct {
	Destination    string                 `json:"destination"`
	StartDate      string                 `json:"startDate"`
	EndDate        string                 `json:"endDate"`
	Budget         float64                `json:"budget"`
	Flights        []models.Flight        `json:"flights"`
	Accommodations []models.Accommodation `json:"accommodations"`
	Transfers      []models.Transfer      `json:"transfers"`
	Expenses       []models.Expense       `json:"expenses"`
}

// Load reads the trip collection, migrating the legacy single-trip document
// if the current key is absent. Malformed JSON under either key degrades to
// an empty collection, never an error: losing a corrupt snapshot beats
// refusing to start.
func (r *TripRepository) Load() ([]models.Trip, error) {
	raw, found, err := r.db.GetValue(tripsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}

	if found {
		var trips []models.Trip
		if err := json.Unmarshal([]byte(raw), &trips); err != nil {
			r.logger.Error("Failed to parse stored trips, starting empty", zap.Error(err))
			return []models.Trip{}, nil
		}
		return models.SanitizeTrips(trips), nil
	}

	return r.migrateLegacy()
}

// migrateLegacy converts the v1 single-trip document into a one-element
// collection and removes the legacy key. Idempotent: once trips_v2 exists
// this path is never reached again.
func (r *TripRepository) migrateLegacy() ([]models.Trip, error) {
	raw, found, err := r.db.GetValue(legacyTripKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy trip: %w", err)
	}
	if !found {
		return []models.Trip{}, nil
	}

	var legacy legacyTrip
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		r.logger.Error("Failed to parse legacy trip, starting empty", zap.Error(err))
		return []models.Trip{}, nil
	}

	name := legacy.Destination
	if name == "" {
		name = "Minha Viagem"
	}
	migrated := models.Trip{
		ID:             "legacy-trip",
		Name:           name,
		StartDate:      legacy.StartDate,
		EndDate:        legacy.EndDate,
		Budget:         legacy.Budget,
		Flights:        legacy.Flights,
		Accommodations: legacy.Accommodations,
		Transfers:      legacy.Transfers,
		Expenses:       legacy.Expenses,
	}
	if legacy.Destination != "" {
		migrated.Destinations = []models.Destination{{ID: "1", Name: legacy.Destination}}
	}
	migrated.Sanitize()

	trips := []models.Trip{migrated}
	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		data, err := json.Marshal(trips)
		if err != nil {
			return fmt.Errorf("failed to marshal migrated trips: %w", err)
		}
		if err := r.db.SetValue(tx, tripsKey, string(data)); err != nil {
			return err
		}
		return r.db.DeleteValue(tx, legacyTripKey)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Migrated legacy trip schema", zap.String("trip_name", name))
	return trips, nil
}

// Save overwrites the stored collection with a full snapshot. Saves are
// idempotent, so callers may coalesce them freely.
func (r *TripRepository) Save(trips []models.Trip) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return fmt.Errorf("failed to marshal trips: %w", err)
	}
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		return r.db.SetValue(tx, tripsKey, string(data))
	})
}
