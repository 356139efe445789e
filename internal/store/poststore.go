package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"uk.co.dudmesh.gatehouse/internal/model"
)

// CreatePendingPost persists a pending post together with one notification
// per recipient as a single transaction. Either the post and its whole
// notification set commit, or nothing does; a partial fan-out is never
// observable.
func (s *Store) CreatePendingPost(post *model.Post, recipients []model.UserID) ([]model.Notification, error) {
	if len(recipients) == 0 {
		return nil, model.ErrorNoModeratorsAvailable
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExec(`insert into post
		(ID, CreatedAt, AuthorID, CommunityID, Content, MediaRef, Status)
		values(:ID, :CreatedAt, :AuthorID, :CommunityID, :Content, :MediaRef, :Status)`, post)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return nil, fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}

	notifications := make([]model.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		notification := model.Notification{
			ID:          model.NotificationID(model.CreateID()),
			CreatedAt:   post.CreatedAt,
			RecipientID: recipient,
			PostID:      post.ID,
			CommunityID: post.CommunityID,
		}
		_, err = tx.NamedExec(`insert into notification
			(ID, CreatedAt, RecipientID, PostID, CommunityID, IsRead)
			values(:ID, :CreatedAt, :RecipientID, :PostID, :CommunityID, :IsRead)`, notification)
		if err != nil {
			return nil, fmt.Errorf("inserting notification for %s: %w", recipient, err)
		}
		notifications = append(notifications, notification)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing submission: %w", err)
	}

	return notifications, nil
}

func (s *Store) GetPost(id model.PostID) (*model.Post, error) {
	post := &model.Post{}
	err := s.db.Get(post, `select * from post where ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorPostNotFound
		}
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	return post, nil
}

// TransitionStatus performs the compare-and-set that serialises concurrent
// moderation decisions: the update only applies while the stored status still
// equals from. A zero-row update on an existing post means another actor won
// the race and is reported as ErrorAlreadyModerated.
func (s *Store) TransitionStatus(id model.PostID, from model.PostStatus, to model.PostStatus, decidedBy model.UserID) (*model.Post, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`update post
		set Status = ?, DecidedAt = ?, DecidedBy = ?
		where ID = ? and Status = ?`, to, now, decidedBy, id, from)
	if err != nil {
		return nil, fmt.Errorf("updating post status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 1 {
		return s.GetPost(id)
	}

	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if post.Status != from {
		return nil, model.ErrorAlreadyModerated
	}
	return nil, fmt.Errorf("conditional update matched no rows for post %s", id)
}

// ListPostsByCommunities returns undecided and approved posts across the
// given communities, newest first. Rejected tombstones never leave the
// store; the per-viewer masking of pending content happens above.
func (s *Store) ListPostsByCommunities(communities []model.CommunityID, limit int, skip int) ([]model.Post, error) {
	if len(communities) == 0 {
		return []model.Post{}, nil
	}

	query, args, err := sqlx.In(`select * from post
		where CommunityID in (?) and Status in (?, ?)
		order by CreatedAt desc limit ? offset ?`,
		communities, model.PostStatusPending, model.PostStatusApproved, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("building feed query: %w", err)
	}

	posts := []model.Post{}
	err = s.db.Select(&posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	return posts, nil
}

// ListModerationQueue returns the pending posts the given moderator was
// notified about, newest first. Decided posts drop out; posts submitted
// before the moderator joined the roster were never fanned out to them and
// do not appear.
func (s *Store) ListModerationQueue(recipient model.UserID) ([]model.Post, error) {
	posts := []model.Post{}
	err := s.db.Select(&posts, `select p.* from post p
		join notification n on n.PostID = p.ID
		where n.RecipientID = ? and p.Status = ?
		order by p.CreatedAt desc`, recipient, model.PostStatusPending)
	if err != nil {
		return nil, fmt.Errorf("fetching moderation queue: %w", err)
	}
	return posts, nil
}
