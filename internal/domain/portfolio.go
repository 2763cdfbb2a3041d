package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Portfolio represents a named collection of holdings owned by the user.
// A portfolio owns zero or more holdings; deleting a portfolio cascades to
// its holdings at the storage layer.
type Portfolio struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// Validate ensures the portfolio adheres to domain rules
// Returns an error if validation fails
func (p *Portfolio) Validate() error {
	if p.Name == "" {
		return errors.New("portfolio name cannot be empty")
	}
	return nil
}
