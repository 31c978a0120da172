// Package registry holds the client/project registry the billing core reads
// its references and current hourly rates from.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
	"github.com/laurent7850/The-event/pkg/identity"
)

// ClientUseCase manages client records. Changing a client's hourly rate
// affects future validations only: snapshots already taken keep their value.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase builds the use case.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create registers a client.
func (uc *ClientUseCase) Create(ctx context.Context, actor identity.Actor, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.HourlyRate != nil && in.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate cannot be negative", domain.ErrInvalidInput)
	}
	now := time.Now()
	c := &entity.Client{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Address:      in.Address,
		BillingEmail: in.BillingEmail,
		Phone:        in.Phone,
		VATNumber:    in.VATNumber,
		HourlyRate:   in.HourlyRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.clientRepo.Create(c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return toClientResponse(c), nil
}

// List returns all clients.
func (uc *ClientUseCase) List(ctx context.Context, actor identity.Actor) ([]dto.ClientResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	clients, err := uc.clientRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

// Update amends a client record.
func (uc *ClientUseCase) Update(ctx context.Context, actor identity.Actor, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	c, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.BillingEmail != nil {
		c.BillingEmail = *in.BillingEmail
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.VATNumber != nil {
		c.VATNumber = *in.VATNumber
	}
	if in.HourlyRate != nil {
		if in.HourlyRate.IsNegative() {
			return nil, fmt.Errorf("%w: hourly rate cannot be negative", domain.ErrInvalidInput)
		}
		c.HourlyRate = in.HourlyRate
	}
	c.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(c); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return toClientResponse(c), nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		BillingEmail: c.BillingEmail,
		Phone:        c.Phone,
		VATNumber:    c.VATNumber,
		HourlyRate:   c.HourlyRate,
	}
}
