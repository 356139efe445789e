package model

import "time"

type PostID string

type PostStatus int

const (
	PostStatusPending PostStatus = iota
	PostStatusApproved
	PostStatusRejected
)

type CreatePostParams struct {
	AuthorID    UserID
	CommunityID CommunityID
	Content     string
	MediaRef    string
}

type Post struct {
	ID          PostID      `db:"ID"`
	CreatedAt   time.Time   `db:"CreatedAt"`
	AuthorID    UserID      `db:"AuthorID"`
	CommunityID CommunityID `db:"CommunityID"`
	Content     string      `db:"Content"`
	MediaRef    string      `db:"MediaRef"`
	Status      PostStatus  `db:"Status"`
	DecidedAt   *time.Time  `db:"DecidedAt"`
	DecidedBy   *UserID     `db:"DecidedBy"`
}
