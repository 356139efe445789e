package store

import (
	"database/sql"
	"errors"
	"fmt"

	"uk.co.dudmesh.gatehouse/internal/model"
)

func (s *Store) GetNotification(id model.NotificationID) (*model.Notification, error) {
	notification := &model.Notification{}
	err := s.db.Get(notification, `select * from notification where ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorNotificationNotFound
		}
		return nil, fmt.Errorf("fetching notification: %w", err)
	}
	return notification, nil
}

func (s *Store) ListUnreadNotifications(recipient model.UserID) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := s.db.Select(&notifications, `select * from notification
		where RecipientID = ? and IsRead = 0
		order by CreatedAt desc`, recipient)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips IsRead to true. The flag is monotonic; marking
// an already-read notification succeeds without change.
func (s *Store) MarkNotificationRead(id model.NotificationID) (*model.Notification, error) {
	_, err := s.db.Exec(`update notification set IsRead = 1 where ID = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("marking notification read: %w", err)
	}
	return s.GetNotification(id)
}

// MarkPostNotificationRead acknowledges the recipient's notification for a
// post, if one exists. Moderators who were never fanned out to have nothing
// to acknowledge and that is not an error.
func (s *Store) MarkPostNotificationRead(postID model.PostID, recipient model.UserID) error {
	_, err := s.db.Exec(`update notification set IsRead = 1
		where PostID = ? and RecipientID = ? and IsRead = 0`, postID, recipient)
	if err != nil {
		return fmt.Errorf("marking post notification read: %w", err)
	}
	return nil
}

func (s *Store) ListNotificationsForPost(postID model.PostID) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := s.db.Select(&notifications, `select * from notification
		where PostID = ? order by CreatedAt desc`, postID)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications for post: %w", err)
	}
	return notifications, nil
}
