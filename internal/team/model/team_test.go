package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTeamID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"team-1", true},
		{"Platform_Core", true},
		{"a", true},
		{"", false},
		{"-leading", false},
		{"has space", false},
		{"slash/team", false},
		{"colon:team", false},
		{strings.Repeat("x", 255), true},
		{strings.Repeat("x", 256), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTeamID(tt.id), tt.id)
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "teams", Team{}.TableName())
	assert.Equal(t, "team_members", Member{}.TableName())
}
