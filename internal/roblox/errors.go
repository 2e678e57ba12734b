package roblox

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound means no Roblox account exists for the given username.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotInGroup means the user is not a member of the group.
	ErrNotInGroup = errors.New("user is not in the group")
	// ErrNoSuchRole means no role in the group matches the requested selector.
	ErrNoSuchRole = errors.New("no matching role")
	// ErrRankBoundary means a promote/demote would step past the top or bottom
	// of the role hierarchy.
	ErrRankBoundary = errors.New("rank change out of bounds")
)

// APIError is a non-2xx response from the Roblox web API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("roblox api: %s (status %d, code %d)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("roblox api: status %d", e.StatusCode)
}
