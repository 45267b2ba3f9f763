package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// patternMat returns a mat whose every byte equals v.
func patternMat(v uint8) gocv.Mat {
	mat := gocv.NewMatWithSize(24, 32, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(float64(v), float64(v), float64(v), 0))
	return mat
}

// uniformValue reports the single byte value of mat, or false if mixed.
func uniformValue(mat gocv.Mat) (uint8, bool) {
	data := mat.ToBytes()
	if len(data) == 0 {
		return 0, false
	}
	for _, b := range data {
		if b != data[0] {
			return 0, false
		}
	}
	return data[0], true
}

func TestFrameSlot_EmptyUntilPublished(t *testing.T) {
	slot := NewFrameSlot()
	defer slot.Close()

	_, ok := slot.Latest(0)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), slot.Seq())

	_, err := slot.Next(context.Background(), 0, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFrameSlot_PublishOverwrites(t *testing.T) {
	slot := NewFrameSlot()
	defer slot.Close()

	assert.Equal(t, uint64(1), slot.Publish(patternMat(10)))
	assert.Equal(t, uint64(2), slot.Publish(patternMat(20)))

	f, ok := slot.Latest(0)
	require.True(t, ok)
	defer f.Close()

	assert.Equal(t, uint64(2), f.Seq)
	v, uniform := uniformValue(f.Mat)
	require.True(t, uniform)
	assert.Equal(t, uint8(20), v, "older unread frame should be replaced")
}

func TestFrameSlot_SequenceSuppressesRereads(t *testing.T) {
	slot := NewFrameSlot()
	defer slot.Close()

	slot.Publish(patternMat(1))

	f, ok := slot.Latest(0)
	require.True(t, ok)
	f.Close()

	_, ok = slot.Latest(f.Seq)
	assert.False(t, ok, "same frame must not be returned as new")

	_, err := slot.Next(context.Background(), f.Seq, 5*time.Millisecond)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFrameSlot_ReaderOwnsCopy(t *testing.T) {
	slot := NewFrameSlot()
	defer slot.Close()

	slot.Publish(patternMat(7))
	f, ok := slot.Latest(0)
	require.True(t, ok)
	defer f.Close()

	// A later publish closes the slot's own mat, not the reader's copy.
	slot.Publish(patternMat(8))

	v, uniform := uniformValue(f.Mat)
	require.True(t, uniform)
	assert.Equal(t, uint8(7), v)
}

func TestFrameSlot_NextWakesOnPublish(t *testing.T) {
	slot := NewFrameSlot()
	defer slot.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		slot.Publish(patternMat(42))
	}()

	start := time.Now()
	f, err := slot.Next(context.Background(), 0, 2*time.Second)
	require.NoError(t, err)
	defer f.Close()

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, uint64(1), f.Seq)
}

func TestFrameSlot_NextHonorsContext(t *testing.T) {
	slot := NewFrameSlot()
	defer slot.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := slot.Next(ctx, 0, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrameSlot_ClosedDiscardsPublishes(t *testing.T) {
	slot := NewFrameSlot()
	slot.Publish(patternMat(3))
	slot.Close()

	assert.Equal(t, uint64(0), slot.Publish(patternMat(4)))
	_, ok := slot.Latest(0)
	assert.False(t, ok)
}

func TestFrameSlot_NoTornReads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency test in short mode")
	}

	slot := NewFrameSlot()
	defer slot.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ctx.Err() == nil; i++ {
			slot.Publish(patternMat(uint8(i % 251)))
		}
	}()

	var last uint64
	reads := 0
	for ctx.Err() == nil {
		f, err := slot.Next(ctx, last, 10*time.Millisecond)
		if err != nil {
			continue
		}
		_, uniform := uniformValue(f.Mat)
		seq := f.Seq
		f.Close()

		require.True(t, uniform, "frame %d was torn", seq)
		require.Greater(t, seq, last, "sequence went backwards")
		last = seq
		reads++
	}

	wg.Wait()
	assert.Positive(t, reads)
}

func TestDeviceLock(t *testing.T) {
	dir := t.TempDir()

	first := NewDeviceLock(dir, 0)
	require.NoError(t, first.Acquire())

	second := NewDeviceLock(dir, 0)
	assert.ErrorIs(t, second.Acquire(), ErrDeviceLocked)

	other := NewDeviceLock(dir, 1)
	require.NoError(t, other.Acquire())
	require.NoError(t, other.Release())

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
	assert.NoError(t, second.Release(), "release when not held")
}
