package httpserver_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovchar/seabattle/internal/game"
	"github.com/ovchar/seabattle/internal/httpserver"
	"github.com/ovchar/seabattle/internal/store"
)

// tinyFleet keeps gameplay tests short: one 1-cell ship on a 5x5 board.
var tinyFleet = []game.ShipClass{{Name: "Boat", Length: 1, Count: 1}}

func newTestServer(t *testing.T, size int, fleet []game.ShipClass) *httptest.Server {
	t.Helper()
	srv := httpserver.New(store.New(time.Hour), size, fleet)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "board" {
			return c
		}
	}
	t.Fatal("no board cookie in response")
	return nil
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)
	resp, body := do(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"ok":true`)
}

func TestAssets(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)
	resp, body := do(t, http.MethodGet, ts.URL+"/assets/ui.css", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "#board")
}

func TestIndexWithoutSessionShowsMenu(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)
	resp, body := do(t, http.MethodGet, ts.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "New game")
	assert.NotContains(t, body, `id="board"`)
}

func TestNewGameSetsCookieAndRendersBoard(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)

	resp, body := do(t, http.MethodPost, ts.URL+"/game", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	assert.Len(t, cookie.Value, 8)
	assert.Contains(t, body, `id="board"`)
	assert.Contains(t, body, `id="counter-Battleship"`)

	// The index now serves the same board instead of the menu.
	resp, body = do(t, http.MethodGet, ts.URL+"/", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="board"`)
}

func TestHitRoundTrip(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)
	resp, _ := do(t, http.MethodPost, ts.URL+"/game", nil)
	cookie := sessionCookie(t, resp)

	resp, body := do(t, http.MethodPatch, ts.URL+"/game/4-4", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="4-4"`)

	// Same cell again: the board is untouched and the client told so.
	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/4-4", cookie)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHitErrorStatuses(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)
	resp, _ := do(t, http.MethodPost, ts.URL+"/game", nil)
	cookie := sessionCookie(t, resp)

	// Malformed coordinate.
	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/nope", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Off the board.
	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/10-0", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No cookie at all.
	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/0-0", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Cookie pointing at a session that no longer exists.
	stale := &http.Cookie{Name: "board", Value: "deadbeef"}
	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/0-0", stale)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	cleared := sessionCookie(t, resp)
	assert.Less(t, cleared.MaxAge, 0, "stale cookie should be cleared")
}

func TestAbandonGame(t *testing.T) {
	ts := newTestServer(t, 10, game.DefaultFleet)
	resp, _ := do(t, http.MethodPost, ts.URL+"/game", nil)
	cookie := sessionCookie(t, resp)

	resp, body := do(t, http.MethodDelete, ts.URL+"/game", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "New game")

	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/0-0", cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Full game over HTTP: shoot every cell of a tiny board. Exactly one 200
// response carries the victory banner, and the session is gone afterwards.
func TestWinRemovesSession(t *testing.T) {
	ts := newTestServer(t, 5, tinyFleet)
	resp, _ := do(t, http.MethodPost, ts.URL+"/game", nil)
	cookie := sessionCookie(t, resp)

	wins := 0
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			url := fmt.Sprintf("%s/game/%d-%d", ts.URL, x, y)
			resp, body := do(t, http.MethodPatch, url, cookie)
			switch resp.StatusCode {
			case http.StatusOK:
				if strings.Contains(body, "Victory") {
					wins++
				}
			case http.StatusConflict, http.StatusNotFound:
				// Conflict: cell already exposed (possibly by the sink
				// cascade). NotFound: session already removed by the win.
			default:
				t.Fatalf("unexpected status %d for %s", resp.StatusCode, url)
			}
		}
	}
	require.Equal(t, 1, wins)

	resp, _ = do(t, http.MethodPatch, ts.URL+"/game/0-0", cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
