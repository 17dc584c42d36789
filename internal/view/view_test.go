package view_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovchar/seabattle/internal/game"
	"github.com/ovchar/seabattle/internal/view"
)

func sampleBoard(t *testing.T) *game.Board {
	t.Helper()
	bld := game.Square(3)
	c := bld.AddCounter("Submarine", 1)
	require.NoError(t, bld.AddShip(c, []game.Point{{X: 0, Y: 0}}))
	return bld.Build()
}

func TestScreenRendersCellsAndCounters(t *testing.T) {
	board := sampleBoard(t)

	var sb strings.Builder
	require.NoError(t, view.Screen(&sb, board.Snapshot()))
	html := sb.String()

	// Every cell is hidden, active, and addressable by its "x-y" id.
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			p := game.Point{X: x, Y: y}
			assert.Contains(t, html, `id="`+p.String()+`"`)
			assert.Contains(t, html, `hx-patch="/game/`+p.String()+`"`)
		}
	}
	assert.Contains(t, html, `id="counter-Submarine"`)
	assert.Contains(t, html, `<span class="cnt-remaining">1</span>`)
	assert.NotContains(t, html, "cell ship", "hidden board must not leak ship positions")
}

func TestHitFragmentUsesOOBSwaps(t *testing.T) {
	board := sampleBoard(t)
	diff, err := board.Hit(game.Point{X: 0, Y: 0})
	require.NoError(t, err)
	require.True(t, diff.Sunk)

	var sb strings.Builder
	require.NoError(t, view.Hit(&sb, diff, board.IsWin()))
	html := sb.String()

	assert.Contains(t, html, `id="0-0" class="cell ship"`)
	// Cascade cells and the counter repaint out of band.
	assert.Contains(t, html, `id="1-1" class="cell water" hx-swap-oob="true"`)
	assert.Contains(t, html, `id="counter-Submarine"`)
	assert.Contains(t, html, `hx-swap-oob="true"`)
	assert.Contains(t, html, "Victory")
}

func TestPageMenuWithoutBoard(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, view.Page(&sb, nil))
	html := sb.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `hx-post="/game"`)
	assert.NotContains(t, html, `id="board"`)
}

func TestPageWithBoard(t *testing.T) {
	board := sampleBoard(t)
	snap := board.Snapshot()

	var sb strings.Builder
	require.NoError(t, view.Page(&sb, &snap))
	assert.Contains(t, sb.String(), `id="board"`)
}
