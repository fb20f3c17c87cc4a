package domain

import (
	"fmt"
	"time"
)

// Closure is the submission window. At most one exists at a time; the
// storage layer enforces that with a singleton key.
type Closure struct {
	Id                 ClosureId `json:"id"`
	StartDate          time.Time `json:"start_date"`
	InitialClosureDate time.Time `json:"initial_closure_date"`
	FinalClosureDate   time.Time `json:"final_closure_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ClosureUpdate carries a partial update; nil fields are left unchanged.
type ClosureUpdate struct {
	StartDate          *time.Time `json:"start_date,omitempty"`
	InitialClosureDate *time.Time `json:"initial_closure_date,omitempty"`
	FinalClosureDate   *time.Time `json:"final_closure_date,omitempty"`
}

// for debug
func (c *Closure) String() string {
	return fmt.Sprintf("[id:%d, start:%s, initial:%s, final:%s]",
		c.Id,
		c.StartDate.Format("2006-01-02"),
		c.InitialClosureDate.Format("2006-01-02"),
		c.FinalClosureDate.Format("2006-01-02"))
}
