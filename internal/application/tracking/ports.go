package tracking

import (
	"context"

	"github.com/laurent7850/The-event/internal/domain/entity"
)

// Notifier delivers fire-and-forget notifications on status changes.
// Failures must never block or roll back a lifecycle transition; callers
// dispatch asynchronously and only log errors.
type Notifier interface {
	WorkEntryValidated(ctx context.Context, e *entity.WorkEntry, client *entity.Client) error
}
