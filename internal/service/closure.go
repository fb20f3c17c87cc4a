package service

import (
	"time"

	"github.com/ideahub-dev/ideahub/internal/dates"
	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
)

// to mock service in tests
type ClosureService interface {
	Create(start, initial, final time.Time) (*domain.Closure, error)
	Update(id domain.ClosureId, upd domain.ClosureUpdate) (string, error)
	Remove(id domain.ClosureId) error
	Get() (*domain.Closure, error)
}

type ClosureStorage interface {
	// GetClosure returns the singleton window, or nil when absent.
	GetClosure() (*domain.Closure, error)
	GetClosureById(id domain.ClosureId) (*domain.Closure, error)
	CreateClosure(start, initial, final time.Time) (*domain.Closure, error)
	UpdateClosure(id domain.ClosureId, upd domain.ClosureUpdate) error
	DeleteClosure(id domain.ClosureId) error
}

type Closure struct {
	storage ClosureStorage
	now     func() time.Time
}

func NewClosure(storage ClosureStorage) *Closure {
	return &Closure{storage, time.Now}
}

// rangeStart checks rule 1: start must lie within [today-1 month, today+1 year].
func rangeStart(start, today time.Time) error {
	if !dates.WithinRange(start, dates.OneMonthAgo(today), dates.OneYearFromNow(today)) {
		return internal_errors.InvalidRange("start", "Invalid Date, Start Date must be within the last month.")
	}
	return nil
}

// rangeInitial checks rule 2: initial close within [today, today+1 year].
func rangeInitial(initial, today time.Time) error {
	if !dates.WithinRange(initial, today, dates.OneYearFromNow(today)) {
		return internal_errors.InvalidRange("initial", "Invalid Date, Initial Closure Date must be in the future.")
	}
	return nil
}

// rangeFinal checks rule 3: final close within [today, today+1 year].
func rangeFinal(final, today time.Time) error {
	if !dates.WithinRange(final, today, dates.OneYearFromNow(today)) {
		return internal_errors.InvalidRange("final", "Invalid Date, Final Closure Date must be in the future.")
	}
	return nil
}

// checkOrder applies rules 4 and 5 to a full date triple.
func checkOrder(start, initial, final time.Time) error {
	if dates.After(initial, final) {
		return internal_errors.InvalidOrder("initial-after-final", "Invalid Date, Initial Closure Date must be before Final Closure Date.")
	}
	if dates.After(start, initial) || dates.After(start, final) {
		return internal_errors.InvalidOrder("start-after-close", "Invalid Date, Start Date must be before the Closure Dates.")
	}
	return nil
}

// Create validates the triple in order, short-circuiting on the first
// failure, and persists the singleton window. A concurrent create racing on
// an absent window is resolved by the storage's singleton-key constraint.
func (c *Closure) Create(start, initial, final time.Time) (*domain.Closure, error) {
	existing, err := c.storage.GetClosure()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal_errors.Conflict("Closure Date Already Exists")
	}

	today := dates.Day(c.now())
	if err := rangeStart(start, today); err != nil {
		return nil, err
	}
	if err := rangeInitial(initial, today); err != nil {
		return nil, err
	}
	if err := rangeFinal(final, today); err != nil {
		return nil, err
	}
	if err := checkOrder(start, initial, final); err != nil {
		return nil, err
	}

	return c.storage.CreateClosure(dates.Day(start), dates.Day(initial), dates.Day(final))
}

// Update applies a partial update with dirty-field validation: a date field
// is only checked against its absolute range when its calendar day actually
// differs from the stored one. Ordering is then re-checked on the merged
// triple, old values standing in for unchanged fields.
func (c *Closure) Update(id domain.ClosureId, upd domain.ClosureUpdate) (string, error) {
	stored, err := c.storage.GetClosureById(id)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", internal_errors.NotFound("Closure Date Does Not Exist")
	}

	today := dates.Day(c.now())
	merged := *stored

	if upd.StartDate != nil && !dates.SameDay(*upd.StartDate, stored.StartDate) {
		if err := rangeStart(*upd.StartDate, today); err != nil {
			return "", err
		}
		merged.StartDate = dates.Day(*upd.StartDate)
	}
	if upd.InitialClosureDate != nil && !dates.SameDay(*upd.InitialClosureDate, stored.InitialClosureDate) {
		if err := rangeInitial(*upd.InitialClosureDate, today); err != nil {
			return "", err
		}
		merged.InitialClosureDate = dates.Day(*upd.InitialClosureDate)
	}
	if upd.FinalClosureDate != nil && !dates.SameDay(*upd.FinalClosureDate, stored.FinalClosureDate) {
		if err := rangeFinal(*upd.FinalClosureDate, today); err != nil {
			return "", err
		}
		merged.FinalClosureDate = dates.Day(*upd.FinalClosureDate)
	}

	if err := checkOrder(merged.StartDate, merged.InitialClosureDate, merged.FinalClosureDate); err != nil {
		return "", err
	}

	if err := c.storage.UpdateClosure(id, domain.ClosureUpdate{
		StartDate:          &merged.StartDate,
		InitialClosureDate: &merged.InitialClosureDate,
		FinalClosureDate:   &merged.FinalClosureDate,
	}); err != nil {
		return "", err
	}

	return "Closure dates have been updated", nil
}

// Remove deletes the window unconditionally; open submissions are not
// checked.
func (c *Closure) Remove(id domain.ClosureId) error {
	stored, err := c.storage.GetClosureById(id)
	if err != nil {
		return err
	}
	if stored == nil {
		return internal_errors.NotFound("Closure Date Does Not Exist")
	}
	return c.storage.DeleteClosure(id)
}

// Get never fails on absence; it returns nil when no window exists.
func (c *Closure) Get() (*domain.Closure, error) {
	return c.storage.GetClosure()
}
