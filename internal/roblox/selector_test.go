package roblox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fpig97-cmd/SKYBOT/internal/roblox"
)

func TestParseSelector(t *testing.T) {
	moderator := roblox.Role{ID: 1, Name: "Moderator", Rank: 5}

	tests := []struct {
		name    string
		input   string
		matches bool
	}{
		{name: "numeric level matches rank", input: "5", matches: true},
		{name: "numeric level with leading zeros", input: "005", matches: true},
		{name: "numeric level mismatch", input: "6", matches: false},
		{name: "role name exact", input: "Moderator", matches: true},
		{name: "role name case-insensitive", input: "moderator", matches: true},
		{name: "mixed digits and letters is a name", input: "5thBattalion", matches: false},
		{name: "unknown role name", input: "Admin", matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := roblox.ParseSelector(tt.input)
			assert.Equal(t, tt.matches, sel.Matches(moderator))
		})
	}
}

func TestParseSelector_NumericNeverMatchesByName(t *testing.T) {
	// A role literally named "5" must not be selected by the numeric input "5";
	// digits always mean a rank level.
	named := roblox.Role{ID: 2, Name: "5", Rank: 10}
	sel := roblox.ParseSelector("5")
	assert.False(t, sel.Matches(named))
}

func TestSelector_String(t *testing.T) {
	assert.Equal(t, "5", roblox.RankLevel(5).String())
	assert.Equal(t, "Moderator", roblox.RoleName("Moderator").String())
}
