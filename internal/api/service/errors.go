package service

import "errors"

var (
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")

	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")

	ErrAlreadyExists   = errors.New("a record with that unique value already exists")
	ErrAlreadyReviewed = errors.New("you have already reviewed this title")
	ErrInvalidRole     = errors.New("role must be one of user, moderator, admin")
	ErrRoleNotEditable = errors.New("role cannot be changed through the profile endpoint")
	ErrUnknownCategory = errors.New("unknown category slug")
	ErrUnknownGenre    = errors.New("unknown genre slug")
)
