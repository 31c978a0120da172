package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a billed party. HourlyRate is the *current* rate and may change
// at any time; validated work entries keep the rate they snapshotted.
type Client struct {
	ID           string
	Name         string
	Address      string
	BillingEmail string
	Phone        string
	VATNumber    string
	HourlyRate   *decimal.Decimal // nil until an admin configures it
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
