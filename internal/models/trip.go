package models

import "github.com/google/uuid"

// Trip is the root planning document for one journey. It exclusively owns
// its six child collections; child items have no identity outside their trip.
type Trip struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Destinations []Destination `json:"destinations"`
	StartDate    string        `json:"startDate"` // YYYY-MM-DD
	EndDate      string        `json:"endDate"`   // YYYY-MM-DD
	Budget       float64       `json:"budget"`    // home currency (BRL)

	// Default currency settings for new foreign expenses
	ForeignCurrency     string  `json:"foreignCurrency,omitempty"`
	DefaultExchangeRate float64 `json:"defaultExchangeRate,omitempty"`

	Flights        []Flight        `json:"flights"`
	Accommodations []Accommodation `json:"accommodations"`
	Transfers      []Transfer      `json:"transfers"`
	Expenses       []Expense       `json:"expenses"`
	Activities     []Activity      `json:"activities"`
}

// Destination is a named stop on a trip. Duplicates are permitted.
type Destination struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Flight struct {
	ID            string       `json:"id"`
	Airline       string       `json:"airline"`
	FlightNumber  string       `json:"flightNumber"`
	DepartureTime string       `json:"departureTime"` // ISO datetime
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

type Accommodation struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	CheckIn         string       `json:"checkIn"`
	CheckOut        string       `json:"checkOut"`
	Address         string       `json:"address"`
	ReservationCode string       `json:"reservationCode,omitempty"`
	Price           float64      `json:"price"`
	Attachments     []Attachment `json:"attachments,omitempty"`
}

type Transfer struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Date   string  `json:"date"`
	Method string  `json:"method"` // Uber, Train, Bus
	Price  float64 `json:"price"`
}

type Activity struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Time        string  `json:"time,omitempty"`
	Description string  `json:"description"`
	Location    string  `json:"location,omitempty"`
	Cost        float64 `json:"cost,omitempty"`
	Completed   bool    `json:"completed"`
}

// Attachment is a self-contained encoded file owned by exactly one flight or
// accommodation.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // MIME type
	Data string `json:"data"` // data URI
}

// Clone returns a deep copy of the trip. Every child slice, including the
// nested attachment slices, gets a fresh backing array, so writes through the
// copy never reach memory shared with previously returned snapshots.
func (t Trip) Clone() Trip {
	c := t
	c.Destinations = make([]Destination, len(t.Destinations))
	copy(c.Destinations, t.Destinations)
	c.Transfers = make([]Transfer, len(t.Transfers))
	copy(c.Transfers, t.Transfers)
	c.Expenses = make([]Expense, len(t.Expenses))
	copy(c.Expenses, t.Expenses)
	c.Activities = make([]Activity, len(t.Activities))
	copy(c.Activities, t.Activities)

	c.Flights = make([]Flight, len(t.Flights))
	for i, f := range t.Flights {
		if f.Attachments != nil {
			atts := make([]Attachment, len(f.Attachments))
			copy(atts, f.Attachments)
			f.Attachments = atts
		}
		c.Flights[i] = f
	}
	c.Accommodations = make([]Accommodation, len(t.Accommodations))
	for i, a := range t.Accommodations {
		if a.Attachments != nil {
			atts := make([]Attachment, len(a.Attachments))
			copy(atts, a.Attachments)
			a.Attachments = atts
		}
		c.Accommodations[i] = a
	}
	return c
}

// NewID generates an opaque random identifier for trips and child items.
func NewID() string {
	return uuid.NewString()
}

// NewTrip creates an empty trip with all child collections present.
func NewTrip(name string) Trip {
	t := Trip{
		ID:   NewID(),
		Name: name,
	}
	t.Sanitize()
	return t
}

// Sanitize normalizes a trip loaded from an untrusted source: every child
// collection must be present as a (possibly empty) slice before the trip is
// considered valid. Fails closed by defaulting, never by rejecting.
func (t *Trip) Sanitize() {
	if t.Destinations == nil {
		t.Destinations = []Destination{}
	}
	if t.Flights == nil {
		t.Flights = []Flight{}
	}
	if t.Accommodations == nil {
		t.Accommodations = []Accommodation{}
	}
	if t.Transfers == nil {
		t.Transfers = []Transfer{}
	}
	if t.Expenses == nil {
		t.Expenses = []Expense{}
	}
	if t.Activities == nil {
		t.Activities = []Activity{}
	}
}

// SanitizeTrips sanitizes every element of a loaded collection in place and
// returns it, mapping a nil collection to an empty one.
func SanitizeTrips(trips []Trip) []Trip {
	if trips == nil {
		return []Trip{}
	}
	for i := range trips {
		trips[i].Sanitize()
	}
	return trips
}
