package store

import (
	"errors"

	"github.com/viajafacil/viajafacil/internal/models"
)

// ErrItemNotFound is returned when an attachment operation targets a flight
// or accommodation that does not exist on the trip.
var ErrItemNotFound = errors.New("item not found")

// AttachToFlight stores an ingested attachment on a flight. Attachments are
// owned exclusively by the item they are attached to.
func (s *Store) AttachToFlight(tripID, flightID string, att models.Attachment) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Flights {
			if t.Flights[i].ID == flightID {
				t.Flights[i].Attachments = append(t.Flights[i].Attachments, att)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// DetachFromFlight removes an attachment from a flight.
func (s *Store) DetachFromFlight(tripID, flightID, attachmentID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Flights {
			if t.Flights[i].ID == flightID {
				t.Flights[i].Attachments = filterAttachments(t.Flights[i].Attachments, attachmentID)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// AttachToAccommodation stores an ingested attachment on an accommodation.
func (s *Store) AttachToAccommodation(tripID, accID string, att models.Attachment) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Accommodations {
			if t.Accommodations[i].ID == accID {
				t.Accommodations[i].Attachments = append(t.Accommodations[i].Attachments, att)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// DetachFromAccommodation removes an attachment from an accommodation.
func (s *Store) DetachFromAccommodation(tripID, accID, attachmentID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Accommodations {
			if t.Accommodations[i].ID == accID {
				t.Accommodations[i].Attachments = filterAttachments(t.Accommodations[i].Attachments, attachmentID)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

func filterAttachments(atts []models.Attachment, id string) []models.Attachment {
	kept := make([]models.Attachment, 0, len(atts))
	for _, a := range atts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	return kept
}
