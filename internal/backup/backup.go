// Package backup exports the trip collection to a portable JSON document and
// imports one back, sanitizing it into valid trip shape.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/viajafacil/viajafacil/internal/models"
	"go.uber.org/zap"
)

// ErrNotArray is returned when an imported document's top-level value is not
// a JSON array. The import is aborted with no state change.
var ErrNotArray = errors.New("backup must contain a list of trips")

// Service writes and reads backup documents.
type Service struct {
	appName string
	logger  *zap.Logger
}

// NewService creates a backup service. appName becomes part of the backup
// filename.
func NewService(appName string, logger *zap.Logger) *Service {
	return &Service{
		appName: appName,
		logger:  logger,
	}
}

// FileName returns the backup filename for a given day:
// backup_<appname>_<YYYY-MM-DD>.json.
func (s *Service) FileName(now time.Time) string {
	return fmt.Sprintf("backup_%s_%s.json", s.appName, now.Format("2006-01-02"))
}

// Write marshals the collection with human-readable indentation into w.
func (s *Service) Write(w io.Writer, trips []models.Trip) error {
	data, err := json.MarshalIndent(trips, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Import reads a backup document. The top-level value must be an array;
// anything else is rejected and the caller's state stays untouched. Accepted
// trips are sanitized before being returned.
func (s *Service) Import(r io.Reader) ([]models.Trip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	// Shape check before decoding into trips: an object parses happily into
	// nothing useful, so inspect the top-level token.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	trimmed := firstNonSpace(raw)
	if trimmed != '[' {
		return nil, ErrNotArray
	}

	var trips []models.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}

	s.logger.Info("Backup imported", zap.Int("trips", len(trips)))
	return models.SanitizeTrips(trips), nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}
