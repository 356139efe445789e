package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"uk.co.dudmesh.gatehouse/internal/metrics"
	"uk.co.dudmesh.gatehouse/internal/model"
)

const DefaultFeedLimit = 10

type Store interface {
	CreatePendingPost(post *model.Post, recipients []model.UserID) ([]model.Notification, error)
	GetPost(id model.PostID) (*model.Post, error)
	ListPostsByCommunities(communities []model.CommunityID, limit int, skip int) ([]model.Post, error)
}

type Directory interface {
	IsMember(ctx context.Context, userID model.UserID, communityID model.CommunityID) (bool, error)
	IsModerator(ctx context.Context, userID model.UserID, communityID model.CommunityID) (bool, error)
	ModeratorsOf(ctx context.Context, communityID model.CommunityID) ([]model.UserID, error)
	CommunitiesOf(ctx context.Context, userID model.UserID) ([]model.CommunityID, error)
}

type service struct {
	store     Store
	directory Directory
}

func New(store Store, directory Directory) *service {
	return &service{store: store, directory: directory}
}

// Submit runs the submission preconditions and, when they pass, commits the
// pending post and its moderator fan-out as one unit. The moderator set is a
// point-in-time snapshot; later roster changes do not touch the
// notifications created here.
func (s *service) Submit(ctx context.Context, params *model.CreatePostParams) (*model.Post, error) {
	if params.AuthorID == "" || params.CommunityID == "" || strings.TrimSpace(params.Content) == "" {
		metrics.SubmissionsRejected.WithLabelValues("validation").Inc()
		return nil, model.ErrorValidation
	}

	isMember, err := s.directory.IsMember(ctx, params.AuthorID, params.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !isMember {
		metrics.SubmissionsRejected.WithLabelValues("not_a_member").Inc()
		return nil, model.ErrorNotAMember
	}

	moderators, err := s.directory.ModeratorsOf(ctx, params.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("fetching moderator set: %w", err)
	}
	if len(moderators) == 0 {
		metrics.SubmissionsRejected.WithLabelValues("no_moderators").Inc()
		return nil, model.ErrorNoModeratorsAvailable
	}

	post := &model.Post{
		ID:          model.PostID(model.CreateID()),
		CreatedAt:   time.Now().UTC(),
		AuthorID:    params.AuthorID,
		CommunityID: params.CommunityID,
		Content:     params.Content,
		MediaRef:    params.MediaRef,
		Status:      model.PostStatusPending,
	}

	notifications, err := s.store.CreatePendingPost(post, moderators)
	if err != nil {
		return nil, fmt.Errorf("creating pending post: %w", err)
	}

	metrics.PostsSubmitted.Inc()
	metrics.NotificationsFanned.Add(float64(len(notifications)))

	return post, nil
}

// Feed returns approved posts across the viewer's communities, newest first.
// The viewer's own pending posts appear with placeholder content; other
// pending posts and all rejected posts are omitted.
func (s *service) Feed(ctx context.Context, viewer model.Viewer, limit int, skip int) ([]model.Post, error) {
	communities, err := s.directory.CommunitiesOf(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching viewer communities: %w", err)
	}
	return s.listVisible(ctx, viewer, communities, limit, skip)
}

func (s *service) CommunityFeed(ctx context.Context, viewer model.Viewer, communityID model.CommunityID, limit int, skip int) ([]model.Post, error) {
	isMember, err := s.directory.IsMember(ctx, viewer.ID, communityID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !isMember {
		return nil, model.ErrorNotAMember
	}
	return s.listVisible(ctx, viewer, []model.CommunityID{communityID}, limit, skip)
}

// Get fetches a single post through the visibility filter. A post the
// viewer may not see at all behaves exactly like one that does not exist.
func (s *service) Get(ctx context.Context, viewer model.Viewer, id model.PostID) (*model.Post, error) {
	post, err := s.store.GetPost(id)
	if err != nil {
		return nil, err
	}

	moderates, err := s.moderates(ctx, viewer, post.CommunityID)
	if err != nil {
		return nil, err
	}

	shown := Apply(post, Resolve(post, viewer, moderates))
	if shown == nil {
		return nil, model.ErrorPostNotFound
	}
	return shown, nil
}

func (s *service) listVisible(ctx context.Context, viewer model.Viewer, communities []model.CommunityID, limit int, skip int) ([]model.Post, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if skip < 0 {
		skip = 0
	}

	posts, err := s.store.ListPostsByCommunities(communities, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}

	moderated := map[model.CommunityID]bool{}
	visible := []model.Post{}
	for i := range posts {
		post := &posts[i]
		moderates, ok := moderated[post.CommunityID]
		if !ok {
			moderates, err = s.moderates(ctx, viewer, post.CommunityID)
			if err != nil {
				return nil, err
			}
			moderated[post.CommunityID] = moderates
		}
		if shown := Apply(post, Resolve(post, viewer, moderates)); shown != nil {
			visible = append(visible, *shown)
		}
	}
	return visible, nil
}

func (s *service) moderates(ctx context.Context, viewer model.Viewer, communityID model.CommunityID) (bool, error) {
	if !viewer.CanModerate() {
		return false, nil
	}
	moderates, err := s.directory.IsModerator(ctx, viewer.ID, communityID)
	if err != nil {
		return false, fmt.Errorf("checking moderator capability: %w", err)
	}
	return moderates, nil
}
