package ranking

import (
	"encoding/json"
	"errors"

	"github.com/fpig97-cmd/SKYBOT/internal/roblox"
)

// RankRequest is the body of POST /rank.
type RankRequest struct {
	Username string    `json:"username"`
	Rank     RankValue `json:"rank"`
}

// RankValue accepts either a JSON string or a JSON number for the rank field
// and remembers which form the caller used so the response can echo it back
// unchanged.
type RankValue struct {
	raw      string
	isNumber bool
	present  bool
}

func (v *RankValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = RankValue{raw: s, present: s != ""}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = RankValue{raw: n.String(), isNumber: true, present: true}
		return nil
	}
	return errors.New("rank must be a string or a number")
}

func (v RankValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.raw)
}

// String returns the textual form of the rank input.
func (v RankValue) String() string { return v.raw }

// Present reports whether a non-empty rank was supplied.
func (v RankValue) Present() bool { return v.present }

// RankResponse is the success body of POST /rank.
type RankResponse struct {
	Success   bool        `json:"success"`
	UserID    int64       `json:"userId"`
	Username  string      `json:"username"`
	RankInput RankValue   `json:"rankInput"`
	NewRole   roblox.Role `json:"newRole"`
}

// BulkRequest is the body of POST /bulk-promote and POST /bulk-demote.
type BulkRequest struct {
	Usernames []string `json:"usernames"`
}

// BulkResultEntry is the outcome for one username in a bulk request. Exactly
// one of the role pair or the error string is populated.
type BulkResultEntry struct {
	Username string       `json:"username"`
	Success  bool         `json:"success"`
	OldRole  *roblox.Role `json:"oldRole,omitempty"`
	NewRole  *roblox.Role `json:"newRole,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// BulkResponse is the body of a well-formed bulk request. Success refers to
// the request as a whole; per-username failures live inside Results.
type BulkResponse struct {
	Success bool              `json:"success"`
	Results []BulkResultEntry `json:"results"`
}

// ErrorResponse is the JSON error body used by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
