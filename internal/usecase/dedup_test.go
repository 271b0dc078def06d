package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupAdmitOnce(t *testing.T) {
	w := NewDedupWindow()
	now := time.Now().UnixMilli()

	assert.True(t, w.Admit("sig1", now))
	assert.False(t, w.Admit("sig1", now))
	assert.True(t, w.Admit("sig2", now))
	assert.Equal(t, 2, w.Size())
}

func TestDedupFloor(t *testing.T) {
	w := NewDedupWindow()
	start := time.Now()
	w.Track(start)

	floor := start.Add(-dedupLookback).UnixMilli()
	assert.False(t, w.Admit("old", floor-1))
	assert.True(t, w.Admit("boundary", floor))
	assert.True(t, w.Admit("fresh", start.UnixMilli()))
}

func TestDedupTrackClearsSeen(t *testing.T) {
	w := NewDedupWindow()
	now := time.Now()

	assert.True(t, w.Admit("sig1", now.UnixMilli()))
	w.Track(now)

	// Same signature admits again after a token switch.
	assert.True(t, w.Admit("sig1", now.UnixMilli()))
}

func TestDedupTrimKeepsNewest(t *testing.T) {
	w := NewDedupWindow()
	now := time.Now().UnixMilli()

	for i := 0; i <= dedupHighWater; i++ {
		assert.True(t, w.Admit(fmt.Sprintf("sig%d", i), now))
	}
	assert.Equal(t, dedupRetain, w.Size())

	// Oldest signatures were evicted and admit again; newest stay seen.
	assert.True(t, w.Admit("sig0", now))
	assert.False(t, w.Admit(fmt.Sprintf("sig%d", dedupHighWater), now))
}

func TestDedupReset(t *testing.T) {
	w := NewDedupWindow()
	w.Track(time.Now())
	w.Admit("sig1", time.Now().UnixMilli())

	w.Reset()
	assert.Equal(t, 0, w.Size())
	// Floor is cleared: arbitrarily old trades admit again.
	assert.True(t, w.Admit("ancient", 1))
}
