package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"viewbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Session pairs a chat's surface with the lock that serializes access to it.
// It is also the surface's renderer: replacements are recorded and picked up
// by the next repaint.
type Session struct {
	mu       sync.Mutex
	surface  *ImageSurface
	changed  bool
	lastUsed atomic.Int64
}

func (s *Session) NotifyChanged() {
	s.changed = true
}

// Do runs fn with exclusive access to the surface.
func (s *Session) Do(fn func(surface *ImageSurface) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(time.Now())

	return fn(s.surface)
}

func (s *Session) touch(t time.Time) {
	s.lastUsed.Store(t.UnixNano())
}

func (s *Session) idleSince(cutoff time.Time) bool {
	return s.lastUsed.Load() < cutoff.UnixNano()
}

// TakeChanged reports whether the surface image was replaced since the last
// call and resets the flag. Callers must hold the session via Do.
func (s *Session) TakeChanged() bool {
	changed := s.changed
	s.changed = false
	return changed
}

type Sessions struct {
	sessions map[int64]*Session
	codec    port.ImageCodec
	ttl      time.Duration
	opts     []SurfaceOption
	mutex    *sync.Mutex
}

// NewSessions creates surfaces on demand with opts applied to each.
func NewSessions(codec port.ImageCodec, ttl time.Duration, opts ...SurfaceOption) *Sessions {
	return &Sessions{
		sessions: make(map[int64]*Session),
		codec:    codec,
		ttl:      ttl,
		opts:     opts,
		mutex:    &sync.Mutex{},
	}
}

// Get returns the session for chatID, creating an empty one if needed. It
// counts as use, so a session just handed out is not evicted before the
// caller gets to Do.
func (s *Sessions) Get(chatID int64) *Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		log.Debug().Int64("chatId", chatID).Msg("creating session")
		session = &Session{}
		session.surface = NewImageSurface(s.codec, session, s.opts...)
		s.sessions[chatID] = session
	}
	session.touch(time.Now())

	return session
}

func (s *Sessions) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.sessions)
}

// EvictIdle drops every session unused since before cutoff and releases its image.
func (s *Sessions) EvictIdle(cutoff time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	evicted := 0
	for chatID, session := range s.sessions {
		session.mu.Lock()
		if session.idleSince(cutoff) {
			session.surface.SetImage(nil)
			delete(s.sessions, chatID)
			evicted++
		}
		session.mu.Unlock()
	}

	return evicted
}

// RunEviction evicts idle sessions every ttl until ctx is done.
func (s *Sessions) RunEviction(ctx context.Context) {
	if s.ttl <= 0 {
		log.Debug().Msg("session eviction disabled")
		return
	}

	for {
		log.Debug().Dur("ttl", s.ttl).Msg("running eviction timer")
		select {
		case <-time.After(s.ttl):
			n := s.EvictIdle(time.Now().Add(-s.ttl))
			log.Debug().Int("evicted", n).Msg("evicted idle sessions")
		case <-ctx.Done():
			log.Debug().Msg("stopping session eviction")
			return
		}
	}
}
