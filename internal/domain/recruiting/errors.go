package recruiting

import "errors"

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidUserID        = errors.New("invalid user id")
)
