package repository

import "github.com/laurent7850/The-event/internal/domain/entity"

// ClientRepository is the read/write port for the client registry.
// GetByID returns (nil, nil) when the client does not exist.
type ClientRepository interface {
	Create(c *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List() ([]*entity.Client, error)
	Update(c *entity.Client) error
}
