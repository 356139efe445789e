package model

import "time"

type NotificationID string

// Notification is one moderator's copy of a pending-post alert. The set of
// notifications for a post is fixed at fan-out time and never grows or
// shrinks with later roster changes.
type Notification struct {
	ID          NotificationID `db:"ID"`
	CreatedAt   time.Time      `db:"CreatedAt"`
	RecipientID UserID         `db:"RecipientID"`
	PostID      PostID         `db:"PostID"`
	CommunityID CommunityID    `db:"CommunityID"`
	IsRead      bool           `db:"IsRead"`
}
