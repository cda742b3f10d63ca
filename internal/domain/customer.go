package domain

import "time"

// Customer is the owner of one or more accounts. Customer management lives
// in a separate service; the ledger only looks customers up by ID.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
