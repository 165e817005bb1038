package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viajafacil/viajafacil/internal/models"
)

func TestAttachToFlight(t *testing.T) {
	s, _ := newTestStore(t)
	trip, _ := s.CreateTrip(models.NewTrip("Eurotrip"))
	flight, _ := s.AddFlight(trip.ID, models.Flight{Airline: "LATAM", FlightNumber: "LA8084"})

	att := models.Attachment{ID: "att1", Name: "cartao.pdf", Type: "application/pdf", Data: "data:application/pdf;base64,AA=="}
	require.NoError(t, s.AttachToFlight(trip.ID, flight.ID, att))

	got, _ := s.Trip(trip.ID)
	require.Len(t, got.Flights[0].Attachments, 1)
	assert.Equal(t, "cartao.pdf", got.Flights[0].Attachments[0].Name)

	require.NoError(t, s.DetachFromFlight(trip.ID, flight.ID, "att1"))
	got, _ = s.Trip(trip.ID)
	assert.Empty(t, got.Flights[0].Attachments)
}

func TestAttachToFlight_UnknownFlight(t *testing.T) {
	s, _ := newTestStore(t)
	trip, _ := s.CreateTrip(models.NewTrip("Eurotrip"))

	err := s.AttachToFlight(trip.ID, "missing", models.Attachment{ID: "att1"})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestAttachToFlight_DoesNotMutateSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	trip, _ := s.CreateTrip(models.NewTrip("Eurotrip"))
	flight, _ := s.AddFlight(trip.ID, models.Flight{Airline: "LATAM", FlightNumber: "LA8084"})
	require.NoError(t, s.AttachToFlight(trip.ID, flight.ID, models.Attachment{ID: "att1", Name: "cartao.pdf"}))

	snapshot, _ := s.Trip(trip.ID)

	require.NoError(t, s.AttachToFlight(trip.ID, flight.ID, models.Attachment{ID: "att2", Name: "recibo.png"}))

	// The earlier snapshot still sees one attachment.
	assert.Len(t, snapshot.Flights[0].Attachments, 1)

	got, _ := s.Trip(trip.ID)
	assert.Len(t, got.Flights[0].Attachments, 2)
}

func TestAttachToAccommodation(t *testing.T) {
	s, _ := newTestStore(t)
	trip, _ := s.CreateTrip(models.NewTrip("Eurotrip"))
	acc, _ := s.AddAccommodation(trip.ID, models.Accommodation{Name: "Pousada Sol"})

	att := models.Attachment{ID: "att1", Name: "reserva.png", Type: "image/png", Data: "data:image/png;base64,AA=="}
	require.NoError(t, s.AttachToAccommodation(trip.ID, acc.ID, att))

	got, _ := s.Trip(trip.ID)
	require.Len(t, got.Accommodations[0].Attachments, 1)
}
