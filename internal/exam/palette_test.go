package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteCountsAndTones(t *testing.T) {
	s := NewSession(fixture(5), 60)

	require.NoError(t, s.Select("B1"))
	_, _ = s.SaveAndNext()
	_, _ = s.SaveAndMarkForReview()
	require.NoError(t, s.Select("A3"))
	_, _ = s.SaveAndMarkForReview()

	p := s.Palette()
	require.Len(t, p.Entries, 5)

	assert.Equal(t, ToneGreen, p.Entries[0].Tone)
	assert.Equal(t, TonePurple, p.Entries[1].Tone)
	assert.Equal(t, TonePurpleCheck, p.Entries[2].Tone)
	assert.Equal(t, ToneRed, p.Entries[3].Tone)
	assert.Equal(t, ToneGray, p.Entries[4].Tone)
	assert.True(t, p.Entries[3].Current)
	assert.Equal(t, 4, p.Entries[3].Label)

	assert.Equal(t, 1, p.Counts[StatusAnswered])
	assert.Equal(t, 1, p.Counts[StatusNotAnswered])
	assert.Equal(t, 1, p.Counts[StatusNotVisited])
	assert.Equal(t, 1, p.Counts[StatusMarkedForReview])
	assert.Equal(t, 1, p.Counts[StatusAnsweredAndMarked])
	assert.Equal(t, 2, p.Marked)
}

func TestPaletteZeroCountsPresent(t *testing.T) {
	p := BuildPalette(nil, nil, 0)
	for _, st := range Statuses {
		count, ok := p.Counts[st]
		assert.True(t, ok)
		assert.Zero(t, count)
	}
}
