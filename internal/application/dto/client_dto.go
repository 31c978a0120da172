package dto

import "github.com/shopspring/decimal"

// CreateClientRequest registers a client; the hourly rate may be configured
// later but validation of a work entry requires it.
type CreateClientRequest struct {
	Name         string           `json:"name"`
	Address      string           `json:"address,omitempty"`
	BillingEmail string           `json:"billing_email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	VATNumber    string           `json:"vat_number,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
}

// UpdateClientRequest amends the registry record; nil fields stay untouched.
// Changing HourlyRate never alters tariff snapshots already taken.
type UpdateClientRequest struct {
	Name         *string          `json:"name,omitempty"`
	Address      *string          `json:"address,omitempty"`
	BillingEmail *string          `json:"billing_email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	VATNumber    *string          `json:"vat_number,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
}

// ClientResponse is the API representation of a client.
type ClientResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Address      string           `json:"address,omitempty"`
	BillingEmail string           `json:"billing_email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	VATNumber    string           `json:"vat_number,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"`
}

// CreateProjectRequest registers a project under a client.
type CreateProjectRequest struct {
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}

// ProjectResponse is the API representation of a project.
type ProjectResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}
