package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"uk.co.dudmesh.gatehouse/internal/model"
)

// Membership reads back the community directory. This service does not own
// roster management; the write methods below exist for provisioning and
// fixtures only.

func (s *Store) IsMember(userID model.UserID, communityID model.CommunityID) (bool, error) {
	var count int
	err := s.db.Get(&count, `select count(*) from membership
		where CommunityID = ? and UserID = ?`, communityID, userID)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return count > 0, nil
}

func (s *Store) MemberRole(userID model.UserID, communityID model.CommunityID) (model.Role, bool, error) {
	var role model.Role
	err := s.db.Get(&role, `select Role from membership
		where CommunityID = ? and UserID = ?`, communityID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RoleGeneral, false, nil
		}
		return model.RoleGeneral, false, fmt.Errorf("fetching member role: %w", err)
	}
	return role, true, nil
}

func (s *Store) ModeratorsOf(communityID model.CommunityID) ([]model.UserID, error) {
	moderators := []model.UserID{}
	err := s.db.Select(&moderators, `select UserID from membership
		where CommunityID = ? and Role >= ?`, communityID, model.RoleModerator)
	if err != nil {
		return nil, fmt.Errorf("fetching moderators: %w", err)
	}
	return moderators, nil
}

func (s *Store) CommunitiesOf(userID model.UserID) ([]model.CommunityID, error) {
	communities := []model.CommunityID{}
	err := s.db.Select(&communities, `select CommunityID from membership
		where UserID = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching communities: %w", err)
	}
	return communities, nil
}

func (s *Store) AddCommunity(id model.CommunityID, name string) error {
	res, err := s.db.Exec(`insert into community (ID, CreatedAt, Name) values(?, ?, ?)`,
		id, time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("inserting community: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *Store) SetMember(communityID model.CommunityID, userID model.UserID, role model.Role) error {
	_, err := s.db.Exec(`insert into membership (CommunityID, UserID, Role) values(?, ?, ?)
		on conflict(CommunityID, UserID) do update set Role = excluded.Role`,
		communityID, userID, role)
	if err != nil {
		return fmt.Errorf("upserting membership: %w", err)
	}
	return nil
}
