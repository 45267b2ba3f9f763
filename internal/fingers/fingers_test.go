package fingers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/fingercount/internal/detector"
)

func TestClassify_Poses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand detector.Hand
		want Vector
	}{
		{name: "open palm", hand: detector.OpenPalmLandmarks(), want: Vector{true, true, true, true, true}},
		{name: "fist", hand: detector.FistLandmarks(), want: Vector{}},
		{name: "peace", hand: detector.HandWithFingers(false, true, true, false, false), want: Vector{false, true, true, false, false}},
		{name: "thumb only", hand: detector.HandWithFingers(true, false, false, false, false), want: Vector{true, false, false, false, false}},
		{name: "three", hand: detector.HandWithFingers(false, true, true, true, false), want: Vector{false, true, true, true, false}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Classify(tt.hand)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Count(), got.Count())
		})
	}
}

func TestClassify_PixelSpaceMatchesNormalized(t *testing.T) {
	t.Parallel()

	hand := detector.HandWithFingers(true, false, true, false, true)
	normalized, err := Classify(hand)
	require.NoError(t, err)

	scaled, err := Classify(hand.Scale(640, 480))
	require.NoError(t, err)

	assert.Equal(t, normalized, scaled)
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	hand := detector.HandWithFingers(false, true, false, true, false)
	first, err := Classify(hand)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		got, err := Classify(hand)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestClassify_FingersUpIgnoresThumb(t *testing.T) {
	t.Parallel()

	for _, thumb := range []bool{true, false} {
		hand := detector.HandWithFingers(thumb, true, true, true, true)
		// Exaggerate: push every tip far above its joint.
		for _, tip := range detector.TipIDs[1:] {
			hand.Keypoints[tip].Y = 0.01
		}

		v, err := Classify(hand)
		require.NoError(t, err)
		assert.Equal(t, [4]bool{true, true, true, true}, [4]bool{v[Index], v[Middle], v[Ring], v[Pinky]})
	}
}

func TestClassify_FistIgnoresThumb(t *testing.T) {
	t.Parallel()

	for _, thumb := range []bool{true, false} {
		v, err := Classify(detector.HandWithFingers(thumb, false, false, false, false))
		require.NoError(t, err)
		assert.Equal(t, thumb, v[Thumb])
		assert.Equal(t, [4]bool{}, [4]bool{v[Index], v[Middle], v[Ring], v[Pinky]})
	}
}

func TestClassify_TieIsFolded(t *testing.T) {
	t.Parallel()

	hand := detector.OpenPalmLandmarks()
	hand.Keypoints[detector.IndexTip].Y = hand.Keypoints[detector.IndexPIP].Y
	hand.Keypoints[detector.ThumbTip].X = hand.Keypoints[detector.ThumbMCP].X

	v, err := Classify(hand)
	require.NoError(t, err)
	assert.False(t, v[Index])
	assert.False(t, v[Thumb])
}

func TestClassify_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand detector.Hand
		got  int
	}{
		{name: "20 keypoints", hand: detector.TruncatedLandmarks(1), got: 20},
		{name: "no keypoints", hand: detector.Hand{}, got: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Classify(tt.hand)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedHand)

			var malformed *MalformedHandError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.got, malformed.Got)
			assert.Equal(t, -1, malformed.Index)
		})
	}
}

func TestVector_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[1 0 1 0 1]", Vector{true, false, true, false, true}.String())
	assert.Equal(t, [NumFingers]int{0, 1, 1, 0, 0}, Vector{false, true, true}.Bits())
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	res := Aggregate(nil, 4)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Hands)
	assert.NoError(t, res.Warning())
}

func TestAggregate_SumsHands(t *testing.T) {
	t.Parallel()

	a := detector.HandWithFingers(true, true, false, false, false)
	b := detector.HandWithFingers(false, true, true, true, true)

	va, err := Classify(a)
	require.NoError(t, err)
	vb, err := Classify(b)
	require.NoError(t, err)

	res := Aggregate([]detector.Hand{a, b}, 4)
	assert.Equal(t, va.Count()+vb.Count(), res.Total)
	assert.Equal(t, 6, res.Total)
	require.Len(t, res.Hands, 2)
	assert.Equal(t, 0, res.Hands[0].Index)
	assert.Equal(t, 1, res.Hands[1].Index)
}

func TestAggregate_SkipsMalformedHand(t *testing.T) {
	t.Parallel()

	hands := []detector.Hand{
		detector.OpenPalmLandmarks(),
		detector.TruncatedLandmarks(1),
		detector.HandWithFingers(false, true, true, false, false),
	}

	res := Aggregate(hands, 4)
	assert.Equal(t, 7, res.Total)
	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Warning(), ErrMalformedHand)

	var malformed *MalformedHandError
	require.True(t, errors.As(res.Skipped[0], &malformed))
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, 20, malformed.Got)

	require.Len(t, res.Hands, 2)
	assert.Equal(t, 2, res.Hands[1].Index)
}

func TestAggregate_MaxHands(t *testing.T) {
	t.Parallel()

	hands := []detector.Hand{
		detector.HandWithFingers(false, true, false, false, false),
		detector.HandWithFingers(false, true, true, false, false),
		detector.OpenPalmLandmarks(),
	}

	tests := []struct {
		name      string
		maxHands  int
		wantTotal int
		dropped   int
	}{
		{name: "limit keeps detector order", maxHands: 2, wantTotal: 3, dropped: 1},
		{name: "limit of one", maxHands: 1, wantTotal: 1, dropped: 2},
		{name: "limit above count", maxHands: 4, wantTotal: 8, dropped: 0},
		{name: "no limit", maxHands: 0, wantTotal: 8, dropped: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Aggregate(hands, tt.maxHands)
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Equal(t, tt.dropped, res.Dropped)
		})
	}
}
