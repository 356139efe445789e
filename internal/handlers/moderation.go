package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.gatehouse/internal/model"
)

type ModerationService interface {
	Accept(ctx context.Context, postID model.PostID, moderator model.UserID) (*model.Post, error)
	Reject(ctx context.Context, postID model.PostID, moderator model.UserID) (*model.Post, error)
	Notifications(ctx context.Context, moderator model.UserID) ([]model.Notification, error)
	Queue(ctx context.Context, moderator model.UserID) ([]model.Post, error)
	PostForModeration(ctx context.Context, postID model.PostID, moderator model.UserID) (*model.Post, error)
	MarkRead(ctx context.Context, id model.NotificationID, recipient model.UserID) (*model.Notification, error)
}

// RequireModerator gates the moderation surface on the token's role claim.
// Community-level capability is checked again per post inside the service.
func RequireModerator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}
		if !viewer.CanModerate() {
			return model.ErrorNotAuthorized
		}
		return next(c)
	}
}

func ListNotifications(moderationService ModerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		notifications, err := moderationService.Notifications(c.Request().Context(), viewer.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, notifications)
	}
}

func GetModerationQueue(moderationService ModerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		posts, err := moderationService.Queue(c.Request().Context(), viewer.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, posts)
	}
}

func GetPostForModeration(moderationService ModerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		post, err := moderationService.PostForModeration(c.Request().Context(), model.PostID(c.Param("postId")), viewer.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, post)
	}
}

func AcceptPost(moderationService ModerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		post, err := moderationService.Accept(c.Request().Context(), model.PostID(c.Param("postId")), viewer.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, post)
	}
}

func RejectPost(moderationService ModerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		post, err := moderationService.Reject(c.Request().Context(), model.PostID(c.Param("postId")), viewer.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, post)
	}
}

func MarkNotificationRead(moderationService ModerationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		notification, err := moderationService.MarkRead(c.Request().Context(), model.NotificationID(c.Param("id")), viewer.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, notification)
	}
}
