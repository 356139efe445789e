package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.gatehouse/internal/model"
)

type PostService interface {
	Submit(ctx context.Context, params *model.CreatePostParams) (*model.Post, error)
	Feed(ctx context.Context, viewer model.Viewer, limit int, skip int) ([]model.Post, error)
	CommunityFeed(ctx context.Context, viewer model.Viewer, communityID model.CommunityID, limit int, skip int) ([]model.Post, error)
	Get(ctx context.Context, viewer model.Viewer, id model.PostID) (*model.Post, error)
}

type submitPostRequest struct {
	CommunityID string `json:"communityId"`
	Content     string `json:"content"`
	MediaRef    string `json:"mediaRef"`
}

func SubmitPost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		request := &submitPostRequest{}
		if err := c.Bind(request); err != nil {
			return model.ErrorValidation
		}

		post, err := postService.Submit(c.Request().Context(), &model.CreatePostParams{
			AuthorID:    viewer.ID,
			CommunityID: model.CommunityID(request.CommunityID),
			Content:     request.Content,
			MediaRef:    request.MediaRef,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, post)
	}
}

func GetFeed(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		limit, skip := pagination(c)
		posts, err := postService.Feed(c.Request().Context(), viewer, limit, skip)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, posts)
	}
}

func GetCommunityPosts(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		limit, skip := pagination(c)
		communityID := model.CommunityID(c.Param("communityId"))
		posts, err := postService.CommunityFeed(c.Request().Context(), viewer, communityID, limit, skip)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, posts)
	}
}

func GetPost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := viewerFrom(c)
		if err != nil {
			return err
		}

		post, err := postService.Get(c.Request().Context(), viewer, model.PostID(c.Param("id")))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, post)
	}
}

func pagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	return limit, skip
}
