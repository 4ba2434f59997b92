package service

import (
	"context"
	"sync"
	"testing"
	"time"
	"viewbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsGet(t *testing.T) {
	sessions := NewSessions(&mockCodec{}, time.Minute)

	a := sessions.Get(1)
	b := sessions.Get(2)
	assert.NotSame(t, a, b)
	assert.Same(t, a, sessions.Get(1))
	assert.Equal(t, 2, sessions.Len())
}

func TestSessionTracksChanges(t *testing.T) {
	session := NewSessions(&mockCodec{}, time.Minute).Get(1)

	err := session.Do(func(surface *ImageSurface) error {
		assert.False(t, session.TakeChanged())

		surface.SetImage(newTestImage(4, 4, nil))
		assert.True(t, session.TakeChanged())
		assert.False(t, session.TakeChanged())

		surface.SetCentered(true)
		assert.False(t, session.TakeChanged())

		surface.SetImage(nil)
		assert.False(t, session.TakeChanged())
		return nil
	})
	require.NoError(t, err)
}

func TestSessionDoReturnsError(t *testing.T) {
	session := NewSessions(&mockCodec{}, time.Minute).Get(1)

	err := session.Do(func(surface *ImageSurface) error {
		_, err := surface.ImageSize()
		return err
	})
	require.ErrorIs(t, err, domain.ErrNoImage)
}

func TestSessionDoSerializes(t *testing.T) {
	session := NewSessions(&mockCodec{}, time.Minute).Get(1)
	require.NoError(t, session.Do(func(surface *ImageSurface) error {
		surface.SetImage(newTestImage(8, 8, nil))
		return nil
	}))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = session.Do(func(surface *ImageSurface) error {
				surface.ApplyGreyscale()
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, session.Do(func(surface *ImageSurface) error {
		size, err := surface.ImageSize()
		assert.Equal(t, domain.Size{Width: 8, Height: 8}, size)
		return err
	}))
}

func TestEvictIdle(t *testing.T) {
	sessions := NewSessions(&mockCodec{}, time.Minute)

	img := newTestImage(2, 2, nil)
	stale := sessions.Get(1)
	require.NoError(t, stale.Do(func(surface *ImageSurface) error {
		surface.SetImage(img)
		return nil
	}))
	stale.touch(time.Now().Add(-time.Hour))

	sessions.Get(2)

	evicted := sessions.EvictIdle(time.Now().Add(-time.Minute))
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, sessions.Len())
	assert.True(t, img.Released())
	assert.NotSame(t, stale, sessions.Get(1))
}

func TestGetKeepsSessionFromEviction(t *testing.T) {
	sessions := NewSessions(&mockCodec{}, time.Minute)

	session := sessions.Get(1)
	session.touch(time.Now().Add(-time.Hour))

	// a handler fetching the session right before the sweep
	again := sessions.Get(1)
	require.Same(t, session, again)

	assert.Equal(t, 0, sessions.EvictIdle(time.Now().Add(-time.Minute)))
	assert.Same(t, session, sessions.Get(1))
}

func TestSessionsApplySurfaceOptions(t *testing.T) {
	sessions := NewSessions(&mockCodec{}, time.Minute, WithMaxPixels(100))

	err := sessions.Get(1).Do(func(surface *ImageSurface) error {
		surface.SetImage(newTestImage(4, 4, nil))
		return surface.ResizeImage(domain.Size{Width: 20, Height: 20})
	})
	require.ErrorIs(t, err, domain.ErrInvalidDimension)
}

func TestRunEvictionStopsOnCancel(t *testing.T) {
	sessions := NewSessions(&mockCodec{}, 10*time.Millisecond)
	sessions.Get(1).touch(time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		sessions.RunEviction(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sessions.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("eviction loop did not stop")
	}
}

func TestRunEvictionDisabled(t *testing.T) {
	sessions := NewSessions(&mockCodec{}, 0)

	done := make(chan struct{})
	go func() {
		sessions.RunEviction(t.Context())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled eviction should return immediately")
	}
}
