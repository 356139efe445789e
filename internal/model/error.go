package model

import "errors"

var ErrorValidation = errors.New("invalid submission")
var ErrorNotAMember = errors.New("not a member of the community")
var ErrorNoModeratorsAvailable = errors.New("community has no moderators")
var ErrorNotAuthorized = errors.New("not authorized")
var ErrorPostNotFound = errors.New("post not found")
var ErrorNotificationNotFound = errors.New("notification not found")
var ErrorCommunityNotFound = errors.New("community not found")
var ErrorAlreadyModerated = errors.New("post already moderated")
