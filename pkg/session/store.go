package session

import (
	"context"

	"github.com/google/uuid"
)

// Line is one cart entry, keyed by item id inside Data.Cart. Quantity is
// always at least 1 for a stored line.
type Line struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Data is the per-browser-session state: the shopping cart and the last
// quote id returned by the remote API.
type Data struct {
	Cart    map[string]Line `json:"cart"`
	QuoteID string          `json:"quote_id,omitempty"`
}

// NewData returns empty session state with an initialized cart map.
func NewData() Data {
	return Data{Cart: map[string]Line{}}
}

// CartCount sums the quantities of every cart line.
func (d Data) CartCount() int {
	total := 0
	for _, line := range d.Cart {
		total += line.Quantity
	}
	return total
}

// Store is the session persistence capability injected into the cart and
// quote services. A missing session reads as empty state, never an error.
type Store interface {
	Get(ctx context.Context, sessionID string) (Data, error)
	Put(ctx context.Context, sessionID string, data Data) error
	Delete(ctx context.Context, sessionID string) error
}

// NewSessionID produces the identifier stored in the browser cookie.
func NewSessionID() string {
	return uuid.NewString()
}
