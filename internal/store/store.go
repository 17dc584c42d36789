// internal/store/store.go
//
// Concurrent session store: maps short random ids to live boards with an
// expiry deadline. The map is sharded with one RWMutex per shard so request
// traffic and the background sweeper do not serialize on a single lock.
//
// Characteristics:
//   - State is lost when the process restarts.
//   - Eviction is lazy: Get never checks expiry; only Cleanup (run on a
//     fixed interval) drops expired sessions. A session that expired but has
//     not been swept yet is still served.

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ovchar/seabattle/internal/game"
)

var (
	// ErrNotFound means the id was never issued, was explicitly removed, or
	// has been swept. Clients should start a new game rather than retry it.
	ErrNotFound = errors.New("session not found")

	// ErrStoreFull means id generation collided for a full retry budget.
	// It fails the one request that hit it, not the process.
	ErrStoreFull = errors.New("session store full")
)

const (
	shardCount = 16
	idTries    = 32
)

// Session is one player's in-progress board plus its expiry deadline.
// The deadline is fixed at creation and never renewed.
type Session struct {
	Board   *game.Board
	Expires time.Time
}

// Expired reports whether the session's deadline has passed.
func (s *Session) Expired(now time.Time) bool { return !s.Expires.After(now) }

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// Store holds every live session, keyed by an 8-hex-char session id.
type Store struct {
	shards   [shardCount]*shard
	lifetime time.Duration
}

// New constructs an empty store. Every session it creates lives for the
// given duration.
func New(lifetime time.Duration) *Store {
	s := &Store{lifetime: lifetime}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return s
}

// Lifetime returns the configured session lifetime. The HTTP layer uses it
// to align cookie expiry with session expiry.
func (s *Store) Lifetime() time.Duration { return s.lifetime }

func (s *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// Create wraps the board in a fresh session expiring Lifetime from now and
// returns its id. Ids are resampled on collision; exhausting the retry
// budget returns ErrStoreFull.
func (s *Store) Create(board *game.Board) (string, error) {
	expires := time.Now().Add(s.lifetime)
	for try := 0; try < idTries; try++ {
		id := newID()
		sh := s.shardFor(id)
		sh.mu.Lock()
		if _, taken := sh.sessions[id]; taken {
			sh.mu.Unlock()
			continue
		}
		sh.sessions[id] = &Session{Board: board, Expires: expires}
		sh.mu.Unlock()
		return id, nil
	}
	return "", ErrStoreFull
}

// Get returns the session for id, or ErrNotFound. Expiry is deliberately
// not checked here (lazy eviction, see package comment).
func (s *Store) Get(id string) (*Session, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	sess, ok := sh.sessions[id]
	sh.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Remove deletes the session immediately, regardless of expiry. Used when a
// game is won or abandoned. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	delete(sh.sessions, id)
	sh.mu.Unlock()
}

// Cleanup removes every session whose deadline is at or before now and
// reports how many were dropped. Shards are swept one at a time under their
// own locks, so in-flight requests on other shards are unaffected.
func (s *Store) Cleanup(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, sess := range sh.sessions {
			if sess.Expired(now) {
				delete(sh.sessions, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Count returns the number of live sessions across all shards.
func (s *Store) Count() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return n
}

// Run sweeps expired sessions on a fixed interval until ctx is cancelled.
// Meant to run as a background goroutine for the life of the process.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	log.Info().Dur("interval", interval).Msg("session cleanup scheduled")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Cleanup(now); n > 0 {
				log.Info().Int("removed", n).Msg("cleaned up expired sessions")
			}
		}
	}
}

// newID returns a compact 8-hex-char identifier. Collisions are handled by
// the caller's resampling loop.
func newID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
