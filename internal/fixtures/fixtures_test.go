package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHands(t *testing.T) {
	cases := map[string]int{
		"none":      0,
		"open_palm": 1,
		"fist":      1,
		"three_up":  1,
		"two_hands": 2,
		"truncated": 2,
	}
	for name, want := range cases {
		hands, err := LoadHands(name)
		require.NoError(t, err, name)
		assert.Len(t, hands, want, name)
	}

	hands, err := LoadHands("truncated")
	require.NoError(t, err)
	assert.True(t, hands[0].Complete())
	assert.False(t, hands[1].Complete())

	_, err = LoadHands("missing")
	assert.Error(t, err)
}

func TestSolidFrames(t *testing.T) {
	frames := SolidFrames(0, 10, 20)
	defer func() {
		for _, f := range frames {
			f.Close()
		}
	}()

	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, FrameRows, f.Rows())
		assert.Equal(t, FrameCols, f.Cols())
		assert.Equal(t, uint8(i*10), Brightness(f))
	}
}
