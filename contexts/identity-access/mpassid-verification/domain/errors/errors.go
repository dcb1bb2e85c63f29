package errors

import "errors"

var (
	ErrInvalidOrganizationID       = errors.New("invalid organization id")
	ErrInvalidUserID               = errors.New("invalid user id")
	ErrInvalidSubjectUID           = errors.New("invalid subject uid")
	ErrIdentityBoundToOtherUser    = errors.New("identity bound to another user")
	ErrAuthorizationTaken          = errors.New("authorization unique id taken by another user")
	ErrAuthorizationNotFound       = errors.New("authorization not found")
	ErrAuthorizationExpired        = errors.New("authorization expired")
	ErrUnknownAuthorizationRule    = errors.New("unknown authorization rule")
	ErrSchoolRegistryUnreadable    = errors.New("school registry file unreadable")
)
