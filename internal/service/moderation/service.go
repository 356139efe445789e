package moderation

import (
	"context"
	"fmt"

	"uk.co.dudmesh.gatehouse/internal/metrics"
	"uk.co.dudmesh.gatehouse/internal/model"
)

type Store interface {
	GetPost(id model.PostID) (*model.Post, error)
	TransitionStatus(id model.PostID, from model.PostStatus, to model.PostStatus, decidedBy model.UserID) (*model.Post, error)
	GetNotification(id model.NotificationID) (*model.Notification, error)
	ListUnreadNotifications(recipient model.UserID) ([]model.Notification, error)
	MarkNotificationRead(id model.NotificationID) (*model.Notification, error)
	MarkPostNotificationRead(postID model.PostID, recipient model.UserID) error
	ListModerationQueue(recipient model.UserID) ([]model.Post, error)
}

type Directory interface {
	IsModerator(ctx context.Context, userID model.UserID, communityID model.CommunityID) (bool, error)
}

type service struct {
	store     Store
	directory Directory
}

func New(store Store, directory Directory) *service {
	return &service{store: store, directory: directory}
}

// Accept transitions a pending post to approved. Authorization is evaluated
// against the directory's current roster, not the fan-out snapshot, so a
// since-demoted moderator cannot decide. Losing the decision race is
// reported as ErrorAlreadyModerated, not treated as a failure.
func (s *service) Accept(ctx context.Context, postID model.PostID, moderator model.UserID) (*model.Post, error) {
	return s.decide(ctx, postID, moderator, model.PostStatusApproved, "approved")
}

// Reject transitions a pending post to the rejected tombstone. The record
// and its notifications stay addressable for audit; no read path returns
// the content again.
func (s *service) Reject(ctx context.Context, postID model.PostID, moderator model.UserID) (*model.Post, error) {
	return s.decide(ctx, postID, moderator, model.PostStatusRejected, "rejected")
}

func (s *service) decide(ctx context.Context, postID model.PostID, moderator model.UserID, to model.PostStatus, outcome string) (*model.Post, error) {
	post, err := s.store.GetPost(postID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, moderator, post.CommunityID); err != nil {
		return nil, err
	}

	decided, err := s.store.TransitionStatus(postID, model.PostStatusPending, to, moderator)
	if err != nil {
		return nil, err
	}

	metrics.ModerationDecisions.WithLabelValues(outcome).Inc()
	return decided, nil
}

// Notifications returns the moderator's unread notifications, newest first.
func (s *service) Notifications(ctx context.Context, moderator model.UserID) ([]model.Notification, error) {
	return s.store.ListUnreadNotifications(moderator)
}

// Queue returns the pending posts the moderator was fanned out to, newest
// first. Reading the queue does not acknowledge anything; only viewing a
// specific post does.
func (s *service) Queue(ctx context.Context, moderator model.UserID) ([]model.Post, error) {
	return s.store.ListModerationQueue(moderator)
}

// PostForModeration returns the post with its real content for an
// authorized moderator and acknowledges their notification as a side
// effect. The acknowledgement is independent of any decision: it neither
// implies one nor is required before one. Decided posts remain readable
// here for audit.
func (s *service) PostForModeration(ctx context.Context, postID model.PostID, moderator model.UserID) (*model.Post, error) {
	post, err := s.store.GetPost(postID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, moderator, post.CommunityID); err != nil {
		return nil, err
	}

	if err := s.store.MarkPostNotificationRead(postID, moderator); err != nil {
		return nil, fmt.Errorf("acknowledging notification: %w", err)
	}

	return post, nil
}

// MarkRead acknowledges a single notification. Re-acknowledging is a no-op
// success; concurrent moderators each acknowledge their own copy.
func (s *service) MarkRead(ctx context.Context, id model.NotificationID, recipient model.UserID) (*model.Notification, error) {
	notification, err := s.store.GetNotification(id)
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != recipient {
		return nil, model.ErrorNotAuthorized
	}
	return s.store.MarkNotificationRead(id)
}

func (s *service) authorize(ctx context.Context, moderator model.UserID, communityID model.CommunityID) error {
	isModerator, err := s.directory.IsModerator(ctx, moderator, communityID)
	if err != nil {
		return fmt.Errorf("checking moderator capability: %w", err)
	}
	if !isModerator {
		return model.ErrorNotAuthorized
	}
	return nil
}
