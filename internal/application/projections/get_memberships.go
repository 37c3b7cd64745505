package projections

import (
	"context"

	"clubhouse/internal/adapters/storage/membership"
	"clubhouse/internal/application/listutil"
	domainMembership "clubhouse/internal/domain/membership"
)

// MembershipListResult carries the query result.
type MembershipListResult struct {
	Applications []domainMembership.Application
	Page         listutil.PageInfo
}

// QueryMemberships returns one page of membership applications, newest first.
func QueryMemberships(ctx context.Context, params listutil.PageParams, store MembershipStore) (MembershipListResult, error) {
	total, err := store.Count(ctx)
	if err != nil {
		return MembershipListResult{}, err
	}
	page := listutil.NewPageInfo(params.Page, params.PerPage, total)
	apps, err := store.List(ctx, membership.ListFilter{Limit: page.PerPage, Offset: page.Offset()})
	if err != nil {
		return MembershipListResult{}, err
	}
	return MembershipListResult{Applications: apps, Page: page}, nil
}
