package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"uk.co.dudmesh.gatehouse/internal/model"
)

// cache entries are deliberately short-lived: the moderator roster is owned
// elsewhere and a stale read only delays, never blocks, roster changes being
// observed.
const moderatorCacheTTL = 30 * time.Second

type Store interface {
	IsMember(userID model.UserID, communityID model.CommunityID) (bool, error)
	MemberRole(userID model.UserID, communityID model.CommunityID) (model.Role, bool, error)
	ModeratorsOf(communityID model.CommunityID) ([]model.UserID, error)
	CommunitiesOf(userID model.UserID) ([]model.CommunityID, error)
}

// Directory answers the membership and moderator-capability questions the
// moderation core consumes. An optional redis client fronts the moderator
// set, which is read on every submission.
type Directory struct {
	store Store
	cache *redis.Client
}

func New(store Store, cache *redis.Client) *Directory {
	return &Directory{store: store, cache: cache}
}

func (d *Directory) IsMember(ctx context.Context, userID model.UserID, communityID model.CommunityID) (bool, error) {
	return d.store.IsMember(userID, communityID)
}

func (d *Directory) IsModerator(ctx context.Context, userID model.UserID, communityID model.CommunityID) (bool, error) {
	role, ok, err := d.store.MemberRole(userID, communityID)
	if err != nil {
		return false, err
	}
	return ok && role >= model.RoleModerator, nil
}

func (d *Directory) CommunitiesOf(ctx context.Context, userID model.UserID) ([]model.CommunityID, error) {
	return d.store.CommunitiesOf(userID)
}

func (d *Directory) ModeratorsOf(ctx context.Context, communityID model.CommunityID) ([]model.UserID, error) {
	if d.cache != nil {
		members, err := d.cache.SMembers(ctx, moderatorKey(communityID)).Result()
		if err == nil && len(members) > 0 {
			moderators := make([]model.UserID, 0, len(members))
			for _, member := range members {
				moderators = append(moderators, model.UserID(member))
			}
			return moderators, nil
		}
	}

	moderators, err := d.store.ModeratorsOf(communityID)
	if err != nil {
		return nil, fmt.Errorf("fetching moderator set: %w", err)
	}

	// never cache an empty set; a community without reviewers must be
	// re-checked on every submission
	if d.cache != nil && len(moderators) > 0 {
		members := make([]interface{}, 0, len(moderators))
		for _, moderator := range moderators {
			members = append(members, string(moderator))
		}
		pipe := d.cache.TxPipeline()
		pipe.SAdd(ctx, moderatorKey(communityID), members...)
		pipe.Expire(ctx, moderatorKey(communityID), moderatorCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			// cache failures degrade to database reads
			return moderators, nil
		}
	}

	return moderators, nil
}

func moderatorKey(communityID model.CommunityID) string {
	return fmt.Sprintf("mods:%s", communityID)
}
