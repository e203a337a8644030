package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenderChoice_Wildcard(t *testing.T) {
	any := AnyGender()
	assert.True(t, any.IsAny())
	assert.True(t, any.Matches(strPtr("female")))
	assert.True(t, any.Matches(nil))
	assert.Equal(t, "any", any.String())

	// The legacy sentinel and the empty string both collapse to the wildcard
	assert.True(t, SpecificGender("any").IsAny())
	assert.True(t, SpecificGender("").IsAny())
}

func TestGenderChoice_Specific(t *testing.T) {
	g := SpecificGender("female")
	assert.False(t, g.IsAny())
	assert.True(t, g.Matches(strPtr("female")))
	assert.False(t, g.Matches(strPtr("male")))
	assert.False(t, g.Matches(nil))
}

func TestGenderChoice_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SpecificGender("male"))
	require.NoError(t, err)
	assert.Equal(t, `"male"`, string(data))

	var g GenderChoice
	require.NoError(t, json.Unmarshal([]byte(`"any"`), &g))
	assert.True(t, g.IsAny())
}

func TestGenderChoice_ScanTreatsNullAsWildcard(t *testing.T) {
	var g GenderChoice
	require.NoError(t, g.Scan(nil))
	assert.True(t, g.IsAny())

	require.NoError(t, g.Scan("female"))
	assert.False(t, g.IsAny())

	assert.Error(t, g.Scan(42))
}

func TestLevelSet_Wildcard(t *testing.T) {
	any := AnyLevel()
	assert.True(t, any.IsAny())
	assert.True(t, any.Contains(strPtr("beginner")))
	assert.True(t, any.Contains(nil))
	assert.Equal(t, []string{"any"}, any.Slice())

	// A lone "any" entry collapses the set, wherever it appears
	assert.True(t, Levels("beginner", "any").IsAny())
	assert.True(t, Levels().IsAny())
}

func TestLevelSet_Explicit(t *testing.T) {
	s := Levels("beginner", "intermediate")
	assert.False(t, s.IsAny())
	assert.True(t, s.Contains(strPtr("beginner")))
	assert.False(t, s.Contains(strPtr("elite")))
	assert.False(t, s.Contains(nil))
	assert.Equal(t, []string{"beginner", "intermediate"}, s.Slice())
}

func TestLevelSet_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Levels("advanced"))
	require.NoError(t, err)
	assert.Equal(t, `["advanced"]`, string(data))

	var s LevelSet
	require.NoError(t, json.Unmarshal([]byte(`["any"]`), &s))
	assert.True(t, s.IsAny())
}

func TestBuddyRequest_IsTerminal(t *testing.T) {
	req := &BuddyRequest{Status: StatusPending}
	assert.False(t, req.IsTerminal())

	req.Status = StatusAccepted
	assert.True(t, req.IsTerminal())

	req.Status = StatusDeclined
	assert.True(t, req.IsTerminal())
}
