package service

import (
	"errors"
)

// Kind 业务错误类别，决定返回给客户端的状态码
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation 构造一个参数校验错误
func Validation(msg string) *Error {
	return newError(KindValidation, msg)
}

var (
	ErrParamInvalid        = newError(KindValidation, "Invalid request")
	ErrUserExist           = newError(KindValidation, "Username or email already exists")
	ErrInvalidCredentials  = newError(KindAuthentication, "Invalid credentials")
	ErrUnauthenticated     = newError(KindAuthentication, "Authentication required")
	ErrTokenInvalid        = newError(KindAuthentication, "Invalid or expired token")
	ErrUserNotFound        = newError(KindNotFound, "User not found")
	ErrForbidden           = newError(KindAuthorization, "Access denied")
	ErrPostNotFound        = newError(KindNotFound, "Post not found")
	ErrInvalidStatus       = newError(KindValidation, "Invalid status")
	ErrInvalidCategory     = newError(KindValidation, "Invalid category")
	ErrCommentNotFound     = newError(KindNotFound, "Comment not found")
	ErrParentNotFound      = newError(KindNotFound, "Parent comment not found")
	ErrCommentEmpty        = newError(KindValidation, "Comment content is required")
	ErrCommentTooLong      = newError(KindValidation, "Comment content is too long")
	ErrParentOtherPost     = newError(KindValidation, "Parent comment belongs to another post")
	ErrNestedReply         = newError(KindValidation, "Cannot reply to a reply")
	ErrCommentForbidden    = newError(KindAuthorization, "Not allowed to modify this comment")
	ErrNotificationMissing = newError(KindNotFound, "Notification not found")
	ErrSearchQueryEmpty    = newError(KindValidation, "Search query is required")
	ErrLikeContended       = newError(KindConflict, "Too many concurrent updates, please retry")
	UnExpectedError        = newError(KindUnexpected, "Something went wrong!")
)

// KindOf 取出错误类别，非业务错误一律视为 KindUnexpected
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
