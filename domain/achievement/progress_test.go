package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTierLevel_Order(t *testing.T) {
	levels := []TierLevel{TierNone, TierBronze, TierSilver, TierGold, TierDiamond}
	for i := 1; i < len(levels); i++ {
		require.True(t, levels[i].After(levels[i-1]))
		require.False(t, levels[i-1].After(levels[i]))
	}
}

func TestProgress_Increment(t *testing.T) {
	p := NewProgress("u1", "a1")
	p = p.Increment(1).Increment(2)
	require.Equal(t, int64(3), p.Value())

	// Counter never decreases.
	p = p.Increment(-5)
	require.Equal(t, int64(3), p.Value())
}

func TestProgress_Advance(t *testing.T) {
	now := time.Now()
	p := NewProgress("u1", "a1")

	p = p.Advance(TierBronze, now, "nice work")
	require.Equal(t, TierBronze, p.CurrentTier())
	require.Len(t, p.History(), 1)
	require.Equal(t, "nice work", p.History()[0].Message())
	require.NotNil(t, p.UnlockedAt())

	// No regression: advancing to a lower or equal tier is a no-op.
	p = p.Advance(TierBronze, now, "")
	require.Len(t, p.History(), 1)

	p = p.Advance(TierSilver, now, "")
	require.Equal(t, TierSilver, p.CurrentTier())
	require.Len(t, p.History(), 2)
}

func TestDefinition_TiersAfter(t *testing.T) {
	def := NewDefinition("Consistency", "Work out regularly", "habit", TypeCumulative, []Tier{
		NewTier(TierBronze, 1),
		NewTier(TierSilver, 5),
		NewTier(TierGold, 10),
		NewTier(TierDiamond, 25),
	}, "flame", 100)

	after := def.TiersAfter(TierSilver)
	require.Len(t, after, 2)
	require.Equal(t, TierGold, after[0].Level())
	require.Equal(t, TierDiamond, after[1].Level())

	require.Len(t, def.TiersAfter(TierNone), 4)
	require.Empty(t, def.TiersAfter(TierDiamond))
}

func TestDefinition_ProgressIncrement(t *testing.T) {
	increments := map[Type]int64{
		TypeStreak:          1,
		TypeCumulative:      1,
		TypeMetricThreshold: 0,
		TypeAIPattern:       0,
	}
	for typ, want := range increments {
		def := NewDefinition("n", "d", "c", typ, nil, "", 10)
		require.Equal(t, want, def.ProgressIncrement(), "type %s", typ)
	}
}
