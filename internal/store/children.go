package store

import (
	"fmt"

	"github.com/viajafacil/viajafacil/internal/expense"
	"github.com/viajafacil/viajafacil/internal/models"
	"github.com/viajafacil/viajafacil/pkg/utils"
)

// Child-collection CRUD. Every operation is a trip-level mutation replacing
// the whole affected array: add appends, update maps by id, remove filters
// by id. Item ids are opaque random tokens generated at creation.

// AddDestination appends a destination to a trip.
func (s *Store) AddDestination(tripID string, d models.Destination) (models.Destination, error) {
	if d.Name == "" {
		return models.Destination{}, fmt.Errorf("%w: destination name is required", ErrValidation)
	}
	if d.ID == "" {
		d.ID = models.NewID()
	}
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		t.Destinations = append(t.Destinations, d)
		return nil
	})
	return d, err
}

// RemoveDestination filters a destination out of a trip.
func (s *Store) RemoveDestination(tripID, destID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		kept := make([]models.Destination, 0, len(t.Destinations))
		for _, d := range t.Destinations {
			if d.ID != destID {
				kept = append(kept, d)
			}
		}
		t.Destinations = kept
		return nil
	})
}

func validateFlight(f *models.Flight) error {
	if f.Airline == "" || f.FlightNumber == "" {
		return fmt.Errorf("%w: airline and flight number are required", ErrValidation)
	}
	f.Price = utils.CoerceAmount(f.Price)
	return nil
}

// AddFlight appends a flight to a trip.
func (s *Store) AddFlight(tripID string, f models.Flight) (models.Flight, error) {
	if err := validateFlight(&f); err != nil {
		return models.Flight{}, err
	}
	if f.ID == "" {
		f.ID = models.NewID()
	}
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		t.Flights = append(t.Flights, f)
		return nil
	})
	return f, err
}

// UpdateFlight replaces the flight with the matching id.
func (s *Store) UpdateFlight(tripID, flightID string, f models.Flight) (models.Flight, error) {
	if err := validateFlight(&f); err != nil {
		return models.Flight{}, err
	}
	f.ID = flightID
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Flights {
			if t.Flights[i].ID == flightID {
				t.Flights[i] = f
			}
		}
		return nil
	})
	return f, err
}

// RemoveFlight filters a flight out of a trip.
func (s *Store) RemoveFlight(tripID, flightID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		kept := make([]models.Flight, 0, len(t.Flights))
		for _, f := range t.Flights {
			if f.ID != flightID {
				kept = append(kept, f)
			}
		}
		t.Flights = kept
		return nil
	})
}

func validateAccommodation(a *models.Accommodation) error {
	if a.Name == "" {
		return fmt.Errorf("%w: accommodation name is required", ErrValidation)
	}
	a.Price = utils.CoerceAmount(a.Price)
	return nil
}

// AddAccommodation appends an accommodation to a trip.
func (s *Store) AddAccommodation(tripID string, a models.Accommodation) (models.Accommodation, error) {
	if err := validateAccommodation(&a); err != nil {
		return models.Accommodation{}, err
	}
	if a.ID == "" {
		a.ID = models.NewID()
	}
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		t.Accommodations = append(t.Accommodations, a)
		return nil
	})
	return a, err
}

// UpdateAccommodation replaces the accommodation with the matching id.
func (s *Store) UpdateAccommodation(tripID, accID string, a models.Accommodation) (models.Accommodation, error) {
	if err := validateAccommodation(&a); err != nil {
		return models.Accommodation{}, err
	}
	a.ID = accID
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Accommodations {
			if t.Accommodations[i].ID == accID {
				t.Accommodations[i] = a
			}
		}
		return nil
	})
	return a, err
}

// RemoveAccommodation filters an accommodation out of a trip.
func (s *Store) RemoveAccommodation(tripID, accID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		kept := make([]models.Accommodation, 0, len(t.Accommodations))
		for _, a := range t.Accommodations {
			if a.ID != accID {
				kept = append(kept, a)
			}
		}
		t.Accommodations = kept
		return nil
	})
}

func validateTransfer(tr *models.Transfer) error {
	if tr.From == "" || tr.To == "" {
		return fmt.Errorf("%w: transfer origin and destination are required", ErrValidation)
	}
	tr.Price = utils.CoerceAmount(tr.Price)
	return nil
}

// AddTransfer appends a ground transfer to a trip.
func (s *Store) AddTransfer(tripID string, tr models.Transfer) (models.Transfer, error) {
	if err := validateTransfer(&tr); err != nil {
		return models.Transfer{}, err
	}
	if tr.ID == "" {
		tr.ID = models.NewID()
	}
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		t.Transfers = append(t.Transfers, tr)
		return nil
	})
	return tr, err
}

// UpdateTransfer replaces the transfer with the matching id.
func (s *Store) UpdateTransfer(tripID, transferID string, tr models.Transfer) (models.Transfer, error) {
	if err := validateTransfer(&tr); err != nil {
		return models.Transfer{}, err
	}
	tr.ID = transferID
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Transfers {
			if t.Transfers[i].ID == transferID {
				t.Transfers[i] = tr
			}
		}
		return nil
	})
	return tr, err
}

// RemoveTransfer filters a transfer out of a trip.
func (s *Store) RemoveTransfer(tripID, transferID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		kept := make([]models.Transfer, 0, len(t.Transfers))
		for _, tr := range t.Transfers {
			if tr.ID != transferID {
				kept = append(kept, tr)
			}
		}
		t.Transfers = kept
		return nil
	})
}

func validateActivity(a *models.Activity) error {
	if a.Description == "" || a.Date == "" {
		return fmt.Errorf("%w: activity description and date are required", ErrValidation)
	}
	a.Cost = utils.CoerceAmount(a.Cost)
	return nil
}

// AddActivity appends an activity to a trip. Whether the date falls inside
// the trip's day range is not enforced here; out-of-range activities are
// simply not visible in the day view.
func (s *Store) AddActivity(tripID string, a models.Activity) (models.Activity, error) {
	if err := validateActivity(&a); err != nil {
		return models.Activity{}, err
	}
	if a.ID == "" {
		a.ID = models.NewID()
	}
	a.Completed = false
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		t.Activities = append(t.Activities, a)
		return nil
	})
	return a, err
}

// UpdateActivity replaces the activity with the matching id.
func (s *Store) UpdateActivity(tripID, activityID string, a models.Activity) (models.Activity, error) {
	if err := validateActivity(&a); err != nil {
		return models.Activity{}, err
	}
	a.ID = activityID
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Activities {
			if t.Activities[i].ID == activityID {
				t.Activities[i] = a
			}
		}
		return nil
	})
	return a, err
}

// RemoveActivity filters an activity out of a trip.
func (s *Store) RemoveActivity(tripID, activityID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		kept := make([]models.Activity, 0, len(t.Activities))
		for _, a := range t.Activities {
			if a.ID != activityID {
				kept = append(kept, a)
			}
		}
		t.Activities = kept
		return nil
	})
}

func validateExpense(e *models.Expense) error {
	e.Amount = utils.CoerceAmount(e.Amount)
	// Conversion runs first: a foreign expense may arrive with only the
	// foreign amount and rate set, and the computed home amount is what the
	// required-amount check must see.
	expense.NormalizeForeign(e)
	if e.Description == "" || e.Amount == 0 {
		return fmt.Errorf("%w: expense description and amount are required", ErrValidation)
	}
	e.Category = models.CanonicalCategory(e.Category)
	if !models.ValidCategory(e.Category) {
		e.Category = models.CategoryFood
	}
	return nil
}

// AddExpense prepends an expense to a trip, newest first. The home-currency
// amount of a foreign expense is recomputed from its foreign amount and rate
// before the save.
func (s *Store) AddExpense(tripID string, e models.Expense) (models.Expense, error) {
	if err := validateExpense(&e); err != nil {
		return models.Expense{}, err
	}
	if e.ID == "" {
		e.ID = models.NewID()
	}
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		t.Expenses = append([]models.Expense{e}, t.Expenses...)
		return nil
	})
	return e, err
}

// UpdateExpense replaces the expense with the matching id.
func (s *Store) UpdateExpense(tripID, expenseID string, e models.Expense) (models.Expense, error) {
	if err := validateExpense(&e); err != nil {
		return models.Expense{}, err
	}
	e.ID = expenseID
	err := s.mutateTrip(tripID, func(t *models.Trip) error {
		for i := range t.Expenses {
			if t.Expenses[i].ID == expenseID {
				t.Expenses[i] = e
			}
		}
		return nil
	})
	return e, err
}

// RemoveExpense filters an expense out of a trip.
func (s *Store) RemoveExpense(tripID, expenseID string) error {
	return s.mutateTrip(tripID, func(t *models.Trip) error {
		kept := make([]models.Expense, 0, len(t.Expenses))
		for _, e := range t.Expenses {
			if e.ID != expenseID {
				kept = append(kept, e)
			}
		}
		t.Expenses = kept
		return nil
	})
}
