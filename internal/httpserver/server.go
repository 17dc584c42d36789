// internal/httpserver/server.go
//
// HTTP wiring for the seabattle server.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, timeouts, response
//     compression).
//   - Cookie session transport: the "board" cookie carries the session id,
//     with cookie expiry aligned to session expiry.
//   - Routes: GET / (page), POST /game (new board + session), PATCH
//     /game/{point} (resolve a hit), DELETE /game (abandon), GET /health,
//     GET /assets/* (embedded static files).
//   - Mapping engine/store errors to HTTP statuses.

package httpserver

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/ovchar/seabattle/assets"
	"github.com/ovchar/seabattle/internal/game"
	"github.com/ovchar/seabattle/internal/store"
	"github.com/ovchar/seabattle/internal/view"
)

// buildTries bounds whole-board rebuilds when one build exhausts its ship
// placement budget. A rebuild starts from an empty grid with a fresh RNG
// stream, so a single retry nearly always succeeds; the cap keeps a fleet
// that genuinely does not fit from looping.
const buildTries = 3

// Server bundles the router, the session store, and the board recipe.
type Server struct {
	r         *chi.Mux
	sessions  *store.Store
	boardSize int
	fleet     []game.ShipClass
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions *store.Store, boardSize int, fleet []game.ShipClass) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		sessions:  sessions,
		boardSize: boardSize,
		fleet:     fleet,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(chimw.Compress(5))

	s.r.Get("/", s.handleIndex)
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/game", s.handleNewGame)
	s.r.Patch("/game/{point}", s.handleHit)
	s.r.Delete("/game", s.handleAbandon)

	s.r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.FS))))

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleIndex serves the full page: the player's board when the session
// cookie resolves, the menu otherwise.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, sess, err := s.currentSession(r); err == nil {
		snap := sess.Board.Snapshot()
		render(w, func() error { return view.Page(w, &snap) })
		return
	}
	render(w, func() error { return view.Page(w, nil) })
}

// handleNewGame builds a fresh randomized board, stores it as a session,
// and sets the session cookie.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	board, err := s.buildBoard()
	if err != nil {
		log.Error().Err(err).Msg("board build failed")
		http.Error(w, "could not build a board", http.StatusInternalServerError)
		return
	}

	id, err := s.sessions.Create(board)
	if err != nil {
		log.Error().Err(err).Msg("session create failed")
		http.Error(w, "could not create a session", http.StatusServiceUnavailable)
		return
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("created session vanished")
		http.Error(w, "could not create a session", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, id, sess.Expires)
	log.Info().Str("session", id).Msg("new board created")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render(w, func() error { return view.Screen(w, board.Snapshot()) })
}

// handleHit resolves one shot for the cookie session. On a win the session
// is removed immediately and the cookie cleared.
func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	point, err := game.ParsePoint(chi.URLParam(r, "point"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, sess, err := s.currentSession(r)
	if errors.Is(err, http.ErrNoCookie) {
		http.Error(w, "no game in progress", http.StatusUnauthorized)
		return
	}
	if err != nil {
		// Stale id: the session was removed on a win or swept by cleanup.
		clearSessionCookie(w)
		http.Error(w, "session not found, start a new game", http.StatusNotFound)
		return
	}

	diff, err := sess.Board.Hit(point)
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, game.ErrAlreadyHit):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		log.Error().Err(err).Str("session", id).Msg("hit failed")
		http.Error(w, "hit failed", http.StatusInternalServerError)
		return
	}

	won := sess.Board.IsWin()
	log.Debug().
		Str("session", id).
		Stringer("point", point).
		Bool("ship", diff.Cell.Ship).
		Bool("sunk", diff.Sunk).
		Msg("hit resolved")

	if won {
		s.sessions.Remove(id)
		clearSessionCookie(w)
		log.Info().Str("session", id).Msg("game won")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render(w, func() error { return view.Hit(w, diff, won) })
}

// handleAbandon drops the cookie session and returns the menu.
func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if id, _, err := s.currentSession(r); !errors.Is(err, http.ErrNoCookie) {
		s.sessions.Remove(id)
		log.Info().Str("session", id).Msg("game abandoned")
	}
	clearSessionCookie(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	render(w, func() error { return view.Menu(w) })
}

// buildBoard retries whole builds, each with fresh randomness, until one
// fits or the budget runs out.
func (s *Server) buildBoard() (*game.Board, error) {
	var err error
	for try := 0; try < buildTries; try++ {
		var board *game.Board
		board, err = game.Square(s.boardSize).Random(s.fleet)
		if err == nil {
			return board, nil
		}
		log.Warn().Err(err).Int("try", try+1).Msg("board build retry")
	}
	return nil, err
}

// currentSession resolves the session cookie to a live session. It returns
// http.ErrNoCookie when no cookie is present and store.ErrNotFound when the
// id no longer resolves.
func (s *Server) currentSession(r *http.Request) (string, *store.Session, error) {
	c, err := r.Cookie(cookieName())
	if err != nil {
		return "", nil, http.ErrNoCookie
	}
	sess, err := s.sessions.Get(c.Value)
	if err != nil {
		return c.Value, nil, err
	}
	return c.Value, sess, nil
}

// render finishes a handler that already committed to a 200 response; a
// template failure mid-body can only be logged.
func render(w http.ResponseWriter, fn func() error) {
	if err := fn(); err != nil {
		log.Error().Err(err).Msg("render failed")
	}
}

// ----------------------------- cookies -------------------------------------

func cookieName() string { return envStr("COOKIE_NAME", "board") }

func setSessionCookie(w http.ResponseWriter, id string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
