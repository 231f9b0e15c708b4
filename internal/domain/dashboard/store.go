package dashboard

import (
	"context"
	"time"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/querier"
)

const leaveStatusPending = "pending"
const leaveStatusApproved = "approved"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CountEmployees(ctx context.Context) (int, int, error) {
	var total, active int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FILTER (WHERE status <> $1), COUNT(1) FILTER (WHERE status = $2)
    FROM users
  `, auth.UserStatusRejected, auth.UserStatusActive).Scan(&total, &active)
	if err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (s *Store) CountPendingRegistrations(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM users WHERE status = $1", auth.UserStatusPending)
}

func (s *Store) CountPendingLeaves(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM leave_requests WHERE status = $1", leaveStatusPending)
}

func (s *Store) CountOnLeave(ctx context.Context, day time.Time) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(DISTINCT user_id)
    FROM leave_requests
    WHERE status = $1 AND start_date <= $2 AND end_date >= $2
  `, leaveStatusApproved, day)
}

func (s *Store) CountSites(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM sites")
}

func (s *Store) CountGroups(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM site_groups")
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
