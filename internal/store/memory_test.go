package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGet(t *testing.T) {
	m := NewMemoryStore(10)
	m.Append("s1", Message{Role: "user", Content: "hi"})
	m.Append("s1", Message{Role: "assistant", Content: "hello"})
	m.Append("s2", Message{Role: "user", Content: "other session"})

	msgs := m.Get("s1")
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Len(t, m.Get("s2"), 1)
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewMemoryStore(10)
	m.Append("s1", Message{Role: "user", Content: "hi"})
	msgs := m.Get("s1")
	msgs[0].Content = "mutated"
	assert.Equal(t, "hi", m.Get("s1")[0].Content)
}

func TestTrimKeepsNewest(t *testing.T) {
	m := NewMemoryStore(3)
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		m.Append("s1", Message{Role: "user", Content: c})
	}
	msgs := m.Get("s1")
	require.Len(t, msgs, 3)
	assert.Equal(t, "c", msgs[0].Content)
	assert.Equal(t, "e", msgs[2].Content)
}

func TestResetKeepsProfile(t *testing.T) {
	m := NewMemoryStore(10)
	m.Append("s1", Message{Role: "user", Content: "hi"})
	m.SetProfile("s1", map[string]any{"age": 30.0})
	m.MarkQuickStartUsed("s1")

	m.Reset("s1")
	assert.Empty(t, m.Get("s1"))
	assert.False(t, m.QuickStartUsed("s1"))
	assert.Equal(t, map[string]any{"age": 30.0}, m.GetProfile("s1"))
}

func TestProfileReplacedWholesale(t *testing.T) {
	m := NewMemoryStore(10)
	m.SetProfile("s1", map[string]any{"age": 30.0, "sex": "male"})
	m.SetProfile("s1", map[string]any{"age": 31.0})
	prof := m.GetProfile("s1")
	assert.Equal(t, map[string]any{"age": 31.0}, prof)
}

func TestProfileCopiedBothWays(t *testing.T) {
	m := NewMemoryStore(10)
	in := map[string]any{"age": 30.0}
	m.SetProfile("s1", in)
	in["age"] = 99.0

	out := m.GetProfile("s1")
	assert.Equal(t, 30.0, out["age"])
	out["age"] = 50.0
	assert.Equal(t, 30.0, m.GetProfile("s1")["age"])
}

func TestGetProfileUnknownSession(t *testing.T) {
	m := NewMemoryStore(10)
	prof := m.GetProfile("nope")
	assert.NotNil(t, prof)
	assert.Empty(t, prof)
}

func TestQuickStartFlag(t *testing.T) {
	m := NewMemoryStore(10)
	assert.False(t, m.QuickStartUsed("s1"))
	m.MarkQuickStartUsed("s1")
	assert.True(t, m.QuickStartUsed("s1"))
	assert.False(t, m.QuickStartUsed("s2"))
}
