package post

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.gatehouse/internal/directory"
	"uk.co.dudmesh.gatehouse/internal/model"
	"uk.co.dudmesh.gatehouse/internal/store"
)

type testConfig string

func (c testConfig) DataDirectory() string { return string(c) }

const (
	communityID = model.CommunityID("c1")
	quietID     = model.CommunityID("c2") // no moderators
	author      = model.UserID("u1")
	member      = model.UserID("u2")
	modOne      = model.UserID("m1")
	modTwo      = model.UserID("m2")
)

func newFixture(t *testing.T) (*service, *store.Store) {
	t.Helper()
	datastore, err := store.Open(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("opening store: %+v", err)
	}
	t.Cleanup(func() { datastore.Close() })

	for _, seed := range []struct {
		community model.CommunityID
		user      model.UserID
		role      model.Role
	}{
		{communityID, author, model.RoleGeneral},
		{communityID, member, model.RoleGeneral},
		{communityID, modOne, model.RoleModerator},
		{communityID, modTwo, model.RoleModerator},
		{quietID, author, model.RoleGeneral},
	} {
		if err := datastore.SetMember(seed.community, seed.user, seed.role); err != nil {
			t.Fatalf("seeding membership: %+v", err)
		}
	}

	return New(datastore, directory.New(datastore, nil)), datastore
}

func TestSubmit(t *testing.T) {
	assert := assert.New(t)
	service, datastore := newFixture(t)
	ctx := context.Background()

	t.Run("creates a pending post and fans out", func(t *testing.T) {
		created, err := service.Submit(ctx, &model.CreatePostParams{
			AuthorID:    author,
			CommunityID: communityID,
			Content:     "hello",
		})
		assert.Nil(err)
		assert.Equal(model.PostStatusPending, created.Status)

		notifications, err := datastore.ListNotificationsForPost(created.ID)
		assert.Nil(err)
		assert.Len(notifications, 2)
	})

	t.Run("rejects blank content before any state exists", func(t *testing.T) {
		_, err := service.Submit(ctx, &model.CreatePostParams{
			AuthorID:    author,
			CommunityID: communityID,
			Content:     "   ",
		})
		assert.ErrorIs(err, model.ErrorValidation)
	})

	t.Run("rejects non-members", func(t *testing.T) {
		_, err := service.Submit(ctx, &model.CreatePostParams{
			AuthorID:    "stranger",
			CommunityID: communityID,
			Content:     "hello",
		})
		assert.ErrorIs(err, model.ErrorNotAMember)
	})

	t.Run("refuses a community with no reviewers", func(t *testing.T) {
		_, err := service.Submit(ctx, &model.CreatePostParams{
			AuthorID:    author,
			CommunityID: quietID,
			Content:     "hello",
		})
		assert.ErrorIs(err, model.ErrorNoModeratorsAvailable)

		posts, err := datastore.ListPostsByCommunities([]model.CommunityID{quietID}, 10, 0)
		assert.Nil(err)
		assert.Len(posts, 0)
	})
}

func TestResolve(t *testing.T) {
	assert := assert.New(t)

	pending := &model.Post{AuthorID: author, CommunityID: communityID, Content: "secret", Status: model.PostStatusPending}
	approved := &model.Post{AuthorID: author, CommunityID: communityID, Content: "public", Status: model.PostStatusApproved}
	rejected := &model.Post{AuthorID: author, CommunityID: communityID, Content: "gone", Status: model.PostStatusRejected}

	cases := []struct {
		name      string
		post      *model.Post
		viewer    model.Viewer
		moderates bool
		expect    Visibility
	}{
		{"approved for anyone", approved, model.Viewer{ID: member}, false, VisibilityFull},
		{"pending for author", pending, model.Viewer{ID: author}, false, VisibilityPlaceholder},
		{"pending for authorized moderator", pending, model.Viewer{ID: modOne, Role: model.RoleModerator}, true, VisibilityFull},
		{"pending for moderator of another community", pending, model.Viewer{ID: modOne, Role: model.RoleModerator}, false, VisibilityHidden},
		{"pending for uninvolved member", pending, model.Viewer{ID: member}, false, VisibilityHidden},
		{"rejected for author", rejected, model.Viewer{ID: author}, false, VisibilityHidden},
		{"rejected for moderator", rejected, model.Viewer{ID: modOne, Role: model.RoleModerator}, true, VisibilityHidden},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(c.expect, Resolve(c.post, c.viewer, c.moderates))
		})
	}

	t.Run("placeholder masks content and media", func(t *testing.T) {
		masked := Apply(&model.Post{Content: "secret", MediaRef: "ref"}, VisibilityPlaceholder)
		assert.Equal(PendingPlaceholder, masked.Content)
		assert.Equal("", masked.MediaRef)
	})

	t.Run("hidden means omitted", func(t *testing.T) {
		assert.Nil(Apply(pending, VisibilityHidden))
	})
}

func TestFeedVisibility(t *testing.T) {
	assert := assert.New(t)
	service, datastore := newFixture(t)
	ctx := context.Background()

	pending, err := service.Submit(ctx, &model.CreatePostParams{
		AuthorID:    author,
		CommunityID: communityID,
		Content:     "awaiting",
	})
	assert.Nil(err)

	published, err := service.Submit(ctx, &model.CreatePostParams{
		AuthorID:    author,
		CommunityID: communityID,
		Content:     "published",
	})
	assert.Nil(err)
	_, err = datastore.TransitionStatus(published.ID, model.PostStatusPending, model.PostStatusApproved, modOne)
	assert.Nil(err)

	t.Run("uninvolved member sees approved only", func(t *testing.T) {
		feed, err := service.Feed(ctx, model.Viewer{ID: member}, 10, 0)
		assert.Nil(err)
		if assert.Len(feed, 1) {
			assert.Equal(published.ID, feed[0].ID)
			assert.Equal("published", feed[0].Content)
		}
	})

	t.Run("author sees own pending as placeholder", func(t *testing.T) {
		feed, err := service.Feed(ctx, model.Viewer{ID: author}, 10, 0)
		assert.Nil(err)
		if assert.Len(feed, 2) {
			assert.Equal(published.ID, feed[0].ID)
			assert.Equal(pending.ID, feed[1].ID)
			assert.Equal(PendingPlaceholder, feed[1].Content)
		}
	})

	t.Run("moderator sees pending content in community feed", func(t *testing.T) {
		feed, err := service.CommunityFeed(ctx, model.Viewer{ID: modOne, Role: model.RoleModerator}, communityID, 10, 0)
		assert.Nil(err)
		if assert.Len(feed, 2) {
			assert.Equal("published", feed[0].Content)
			assert.Equal("awaiting", feed[1].Content)
		}
	})

	t.Run("community feed requires membership", func(t *testing.T) {
		_, err := service.CommunityFeed(ctx, model.Viewer{ID: "stranger"}, communityID, 10, 0)
		assert.ErrorIs(err, model.ErrorNotAMember)
	})

	t.Run("single fetch behaves like the feed", func(t *testing.T) {
		_, err := service.Get(ctx, model.Viewer{ID: member}, pending.ID)
		assert.ErrorIs(err, model.ErrorPostNotFound)

		own, err := service.Get(ctx, model.Viewer{ID: author}, pending.ID)
		assert.Nil(err)
		assert.Equal(PendingPlaceholder, own.Content)

		shown, err := service.Get(ctx, model.Viewer{ID: member}, published.ID)
		assert.Nil(err)
		assert.Equal("published", shown.Content)
	})

	t.Run("rejected posts vanish from every read path", func(t *testing.T) {
		_, err := datastore.TransitionStatus(pending.ID, model.PostStatusPending, model.PostStatusRejected, modOne)
		assert.Nil(err)

		_, err = service.Get(ctx, model.Viewer{ID: author}, pending.ID)
		assert.ErrorIs(err, model.ErrorPostNotFound)

		feed, err := service.Feed(ctx, model.Viewer{ID: author}, 10, 0)
		assert.Nil(err)
		assert.Len(feed, 1)
	})
}
