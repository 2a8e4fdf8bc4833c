package engine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// InsertMember persists a newly enrolled member.
func (s *Store) InsertMember(ctx context.Context, member core.Member) error {
	insertStmt := s.builder().
		Insert(tableMembers).
		Rows(goqu.Record{
			"member_id":         member.ID.String(),
			"name":              member.Name,
			"email":             member.Email,
			"membership_status": string(member.Status),
			"enrolled_at":       ts(member.EnrolledAt),
			"expires_at":        ts(member.ExpiresAt),
		})

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// GetMember loads a member by id.
func (s *Store) GetMember(ctx context.Context, memberID uuid.UUID) (core.Member, error) {
	selectStmt := s.builder().
		From(tableMembers).
		Select("member_id", "name", "email", "membership_status", "enrolled_at", "expires_at").
		Where(goqu.Ex{"member_id": memberID.String()})

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return core.Member{}, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return core.Member{}, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return core.Member{}, notFound("member", memberID)
	}

	return s.scanMember(rows)
}

func (s *Store) scanMember(rows interface{ Scan(dest ...any) error }) (core.Member, error) {
	var (
		id, name, email, status string
		enrolledAt, expiresAt   time.Time
	)

	if scanErr := rows.Scan(&id, &name, &email, &status, &enrolledAt, &expiresAt); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return core.Member{}, scanErr
	}

	memberID, err := parseID(id)
	if err != nil {
		return core.Member{}, err
	}

	return core.Member{
		ID:         memberID,
		Name:       name,
		Email:      email,
		Status:     core.MembershipStatus(status),
		EnrolledAt: enrolledAt.UTC(),
		ExpiresAt:  expiresAt.UTC(),
	}, nil
}

// UpdateMembershipStatus transitions a membership from an expected status to
// a new one. The expectation in the WHERE clause makes the write a
// compare-and-swap.
func (s *Store) UpdateMembershipStatus(
	ctx context.Context,
	memberID uuid.UUID,
	from core.MembershipStatus,
	to core.MembershipStatus,
) error {

	updateStmt := s.builder().
		Update(tableMembers).
		Set(goqu.Record{"membership_status": string(to)}).
		Where(goqu.Ex{
			"member_id":         memberID.String(),
			"membership_status": string(from),
		})

	sqlQuery, err := s.buildSQL(updateStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// ListExpiredMemberships returns Active members whose membership expired
// before now, oldest first, limited for per-record sweep processing.
func (s *Store) ListExpiredMemberships(ctx context.Context, now time.Time, limit uint) ([]core.Member, error) {
	selectStmt := s.builder().
		From(tableMembers).
		Select("member_id", "name", "email", "membership_status", "enrolled_at", "expires_at").
		Where(goqu.Ex{"membership_status": string(core.MembershipActive)}).
		Where(goqu.C("expires_at").Lt(ts(now))).
		Order(goqu.I("expires_at").Asc()).
		Limit(limit)

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	members := make([]core.Member, 0)

	for rows.Next() {
		member, scanErr := s.scanMember(rows)
		if scanErr != nil {
			return nil, scanErr
		}

		members = append(members, member)
	}

	return members, nil
}

// InsertStaff persists a new staff account.
func (s *Store) InsertStaff(ctx context.Context, staff core.Staff) error {
	insertStmt := s.builder().
		Insert(tableStaff).
		Rows(goqu.Record{
			"staff_id":      staff.ID.String(),
			"name":          staff.Name,
			"email":         staff.Email,
			"password_hash": staff.PasswordHash,
			"registered_at": ts(staff.RegisteredAt),
		})

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}
