package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeType_IsValid(t *testing.T) {
	assert.True(t, ScopeCourse.IsValid())
	assert.True(t, ScopeGroup.IsValid())
	assert.False(t, ScopeType("club").IsValid())
	assert.False(t, ScopeType("").IsValid())
}

func TestScope_Key(t *testing.T) {
	assert.Equal(t, "course_12", Scope{Type: ScopeCourse, ID: 12}.Key())
	assert.Equal(t, "group_7", Scope{Type: ScopeGroup, ID: 7}.Key())
}

func TestScope_String(t *testing.T) {
	assert.Equal(t, "course:12", Scope{Type: ScopeCourse, ID: 12}.String())
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Scope
		wantErr bool
	}{
		{"course", "course:12", Scope{Type: ScopeCourse, ID: 12}, false},
		{"group upper case", "GROUP:3", Scope{Type: ScopeGroup, ID: 3}, false},
		{"surrounding space", " course:1 ", Scope{Type: ScopeCourse, ID: 1}, false},
		{"missing colon", "course12", Scope{}, true},
		{"bad id", "course:abc", Scope{}, true},
		{"zero id", "course:0", Scope{}, true},
		{"unknown type", "club:1", Scope{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScope(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScopeKey_RoundTrip(t *testing.T) {
	s := Scope{Type: ScopeGroup, ID: 42}
	got, err := ParseScopeKey(s.Key())
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = ParseScopeKey("nounderscore")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
