package post

import "uk.co.dudmesh.gatehouse/internal/model"

// PendingPlaceholder is what the author of an undecided post sees in place
// of their content.
const PendingPlaceholder = "Your post is awaiting moderation"

type Visibility int

const (
	VisibilityHidden Visibility = iota
	VisibilityPlaceholder
	VisibilityFull
)

// Resolve decides what, if anything, a viewer may see of a post. It is a
// pure function of the post status, the viewer, and whether the viewer
// moderates the post's community.
//
// Pending content is shown in full only on the moderation path; the author
// sees a placeholder, everyone else sees nothing at all. Rejected posts are
// tombstones and are visible to nobody.
func Resolve(p *model.Post, viewer model.Viewer, moderatesCommunity bool) Visibility {
	switch p.Status {
	case model.PostStatusApproved:
		return VisibilityFull
	case model.PostStatusPending:
		if viewer.ID == p.AuthorID {
			return VisibilityPlaceholder
		}
		if viewer.CanModerate() && moderatesCommunity {
			return VisibilityFull
		}
		return VisibilityHidden
	default:
		return VisibilityHidden
	}
}

// Apply returns a copy of the post shaped for the given visibility, or nil
// when the post must be omitted from the result set entirely.
func Apply(p *model.Post, visibility Visibility) *model.Post {
	switch visibility {
	case VisibilityFull:
		shown := *p
		return &shown
	case VisibilityPlaceholder:
		shown := *p
		shown.Content = PendingPlaceholder
		shown.MediaRef = ""
		return &shown
	default:
		return nil
	}
}
