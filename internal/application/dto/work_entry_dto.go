package dto

import "github.com/shopspring/decimal"

// CreateWorkEntryRequest is the collaborator submission payload.
// Times are HH:MM; an end at or before the start means an overnight span.
type CreateWorkEntryRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	ClientID  string `json:"client_id"`
	ProjectID string `json:"project_id"`
	Address   string `json:"address,omitempty"`
}

// AmendWorkEntryRequest carries the admin amendment; nil fields are left
// untouched. Hours are recomputed whenever date or either time changes.
type AmendWorkEntryRequest struct {
	Date         *string `json:"date,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	ClientID     *string `json:"client_id,omitempty"`
	ProjectID    *string `json:"project_id,omitempty"`
	Address      *string `json:"address,omitempty"`
	AdminComment *string `json:"admin_comment,omitempty"`
}

// WorkEntryResponse is the API representation of a work entry.
type WorkEntryResponse struct {
	ID             string           `json:"id"`
	CollaboratorID string           `json:"collaborator_id"`
	ClientID       string           `json:"client_id"`
	ClientName     string           `json:"client_name,omitempty"`
	ProjectID      string           `json:"project_id"`
	ProjectName    string           `json:"project_name,omitempty"`
	Date           string           `json:"date"`
	StartTime      string           `json:"start_time"`
	EndTime        string           `json:"end_time"`
	ComputedHours  decimal.Decimal  `json:"computed_hours"`
	Address        string           `json:"address,omitempty"`
	Status         string           `json:"status"`
	TariffSnapshot *decimal.Decimal `json:"tariff_snapshot,omitempty"`
	AdminComment   string           `json:"admin_comment,omitempty"`
	Invoiced       bool             `json:"invoiced"`
}
