package consts

import "time"

// gin.Context 中的键
const (
	SessionKey = "session"
)

const (
	DefaultPage         = 1
	DefaultCommentLimit = 10
	MaxCommentLimit     = 50
	MaxCommentLength    = 2000
	SnippetLength       = 80
)

const (
	IndexTimeout = 3 * time.Second
)
