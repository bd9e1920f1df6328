package usecase

import (
	"context"
	"time"

	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// branchDay resolves the branch-local calendar day used to scope queue and
// order numbering. Unknown branches and bad timezone names fall back to UTC so
// numbering keeps working rather than failing a customer-facing call.
func branchDay(ctx context.Context, branches repository.BranchRepository, branchID int64, now time.Time) (string, time.Time) {
	loc := time.UTC
	if branches != nil {
		if branch, err := branches.GetByID(ctx, branchID); err == nil {
			if l, err := time.LoadLocation(branch.Timezone); err == nil {
				loc = l
			}
		}
	}

	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return local.Format("2006-01-02"), dayStart
}
