package roblox

import (
	"strconv"
	"strings"
)

// Role is one tier in a group's ordered role hierarchy. Rank is the numeric
// level (0 = Guest, 255 = owner); Name and ID identify the role itself.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// RankChange reports the outcome of a one-step promote or demote.
type RankChange struct {
	OldRole Role
	NewRole Role
}

// AuthenticatedUser describes the account behind the session cookie.
type AuthenticatedUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Selector picks a target role either by numeric rank level or by role name.
// Which interpretation applies is decided once, when the request crosses the
// HTTP boundary, and never re-inferred downstream.
type Selector struct {
	level   int
	name    string
	numeric bool
}

// RankLevel selects the role with the given numeric rank.
func RankLevel(level int) Selector {
	return Selector{level: level, numeric: true}
}

// RoleName selects the role with the given name (case-insensitive).
func RoleName(name string) Selector {
	return Selector{name: name}
}

// ParseSelector interprets a raw rank input: a string made entirely of digits
// is a numeric rank level, anything else is a role name passed through
// unchanged.
func ParseSelector(input string) Selector {
	if input == "" {
		return RoleName(input)
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return RoleName(input)
		}
	}
	level, err := strconv.Atoi(input)
	if err != nil {
		return RoleName(input)
	}
	return RankLevel(level)
}

// Matches reports whether the selector identifies the given role.
func (s Selector) Matches(r Role) bool {
	if s.numeric {
		return r.Rank == s.level
	}
	return strings.EqualFold(r.Name, s.name)
}

func (s Selector) String() string {
	if s.numeric {
		return strconv.Itoa(s.level)
	}
	return s.name
}
