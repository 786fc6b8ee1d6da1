package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("trivia=on,github_login=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{Trivia, "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
		assert.True(t, m.On(name), name)
	}
	for _, name := range []string{GitHubLogin, "d", "f", "unlisted"} {
		assert.False(t, m.Enabled(name, 1), name)
		assert.False(t, m.On(name), name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=abc%")

	assert.True(t, m.On("always"))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled("broken", 1))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}
	assert.False(t, m.On("canary"), "anonymous callers are outside partial rollouts")

	enabled := 0
	for uid := uint(1); uid <= 1000; uid++ {
		if m.Enabled("canary", uid) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestNamesAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,Trivia=ON, y = 20% ,z=off,=on,w= ")

	assert.Equal(t, []string{"trivia", "y", "z"}, m.Names())

	snap := m.Snapshot(0)
	assert.Equal(t, map[string]bool{"trivia": true, "y": false, "z": false}, snap)
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.On(Trivia))
	assert.Empty(t, m.Names())
	assert.Empty(t, m.Snapshot(1))
}
