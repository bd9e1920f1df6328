package repository

import (
	"context"
	"time"

	"github.com/posdesk/fulfillment/internal/domain/model"
)

// QueueRepository describes persistence operations with queue entries.
type QueueRepository interface {
	// Join inserts the entry and allocates the next queue number for the
	// entry's branch and the given day through a serialized counter.
	Join(ctx context.Context, entry *model.QueueEntry, day string) (*model.QueueEntry, error)
	GetByID(ctx context.Context, id int64) (*model.QueueEntry, error)
	// UpdateStatusIf conditionally moves the entry from one of the expected
	// statuses to the target, stamping calledAt or servedAt as appropriate.
	UpdateStatusIf(ctx context.Context, entryID int64, from []model.QueueStatus, to model.QueueStatus, at time.Time) (bool, error)
	// ListActive returns waiting and called entries for the branch in queue
	// number order.
	ListActive(ctx context.Context, branchID int64) ([]model.QueueEntry, error)
	// Stats aggregates queue counters for the branch; served numbers cover
	// entries served since dayStart.
	Stats(ctx context.Context, branchID int64, dayStart time.Time) (*model.QueueStats, error)
	// CancelByOrder cancels a waiting or called entry linked to the order, if
	// any. Served entries are left alone.
	CancelByOrder(ctx context.Context, orderID int64) error
}
