// internal/view/view.go
//
// HTML rendering for the htmx front end.
// Responsibilities:
//   - Full index page (menu or an in-progress board).
//   - Board fragment: counters + grid. Hidden cells carry the "x-y" element
//     id and an hx-patch to the same "x-y" move route; the id doubling as
//     the wire coordinate is a compatibility contract with internal/game.
//   - Hit fragment: the struck cell swaps in place, sink-cascade cells and
//     the changed counter piggyback as hx-swap-oob elements, so only the
//     affected elements repaint.

package view

import (
	"html/template"
	"io"

	"github.com/ovchar/seabattle/internal/game"
)

// CellView is one rendered grid cell.
type CellView struct {
	ID      string
	Exposed bool
	Ship    bool
	OOB     bool // render with hx-swap-oob (cascade repaint)
}

// CounterView is one rendered ship-class score line.
type CounterView struct {
	Name      string
	Total     int
	Remaining int
	Defeated  bool
	OOB       bool
}

// ScreenView is the full game screen: counters plus grid.
type ScreenView struct {
	Width    int
	Rows     [][]CellView
	Counters []CounterView
	Won      bool
}

// HitView is the partial response to one resolved hit.
type HitView struct {
	Cell     CellView
	Revealed []CellView
	Counter  *CounterView
	Won      bool
}

// PageView is the index page.
type PageView struct {
	Board *ScreenView // nil renders the menu
}

var tpl = template.Must(template.New("view").Parse(`
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="/assets/ui.css">
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head>
<body>
<div id="container">{{if .Board}}{{template "screen" .Board}}{{else}}{{template "menu" .}}{{end}}</div>
</body>
</html>
{{end}}

{{define "menu"}}<div id="screen"><div id="display" class="menu">
<h1>Sea Battle</h1>
<button class="menu-btn" hx-post="/game" hx-target="#screen" hx-swap="outerHTML">New game</button>
</div></div>{{end}}

{{define "screen"}}<div id="screen"><div id="display" class="game">
<div id="stats-container">{{range .Counters}}{{template "counter" .}}{{end}}</div>
{{template "banner" .Won}}
<div id="board" style="grid-template-columns: repeat({{.Width}}, 1fr)">
{{range .Rows}}{{range .}}{{template "cell" .}}{{end}}
{{end}}</div>
</div></div>{{end}}

{{define "cell"}}{{if .Exposed}}<div id="{{.ID}}" class="cell {{if .Ship}}ship{{else}}water{{end}}"{{if .OOB}} hx-swap-oob="true"{{end}}></div>{{else}}<div id="{{.ID}}" class="cell active" hx-patch="/game/{{.ID}}" hx-target="this" hx-swap="outerHTML"></div>{{end}}{{end}}

{{define "counter"}}<div id="counter-{{.Name}}" class="ship-counter{{if .Defeated}} defeated{{end}}"{{if .OOB}} hx-swap-oob="true"{{end}}>
<div class="cnt-name">{{.Name}}</div>
<div class="cnt-row"><span class="cnt-remaining">{{.Remaining}}</span>/<span class="cnt-total">{{.Total}}</span></div>
</div>{{end}}

{{define "banner"}}{{if .}}<div id="banner" class="banner win" hx-swap-oob="true">
<span>Victory! The fleet is sunk.</span>
<button class="menu-btn" hx-post="/game" hx-target="#screen" hx-swap="outerHTML">Play again</button>
</div>{{else}}<div id="banner"></div>{{end}}{{end}}

{{define "hit"}}{{template "cell" .Cell}}
{{range .Revealed}}{{template "cell" .}}
{{end}}{{with .Counter}}{{template "counter" .}}{{end}}{{if .Won}}{{template "banner" true}}{{end}}{{end}}
`))

// Page writes the full index page. A nil snapshot renders the menu.
func Page(w io.Writer, snap *game.Snapshot) error {
	var pv PageView
	if snap != nil {
		sv := screenView(*snap)
		pv.Board = &sv
	}
	return tpl.ExecuteTemplate(w, "page", pv)
}

// Menu writes the #screen menu fragment (used after a game is abandoned).
func Menu(w io.Writer) error {
	return tpl.ExecuteTemplate(w, "menu", PageView{})
}

// Screen writes the #screen fragment for a board snapshot.
func Screen(w io.Writer, snap game.Snapshot) error {
	return tpl.ExecuteTemplate(w, "screen", screenView(snap))
}

// Hit writes the partial repaint for one resolved hit. won additionally
// swaps in the victory banner.
func Hit(w io.Writer, diff game.HitDiff, won bool) error {
	hv := HitView{
		Cell: revealView(diff.Cell, false),
		Won:  won,
	}
	for _, r := range diff.Revealed {
		hv.Revealed = append(hv.Revealed, revealView(r, true))
	}
	if diff.Counter != nil {
		hv.Counter = &CounterView{
			Name:      diff.Counter.Name,
			Total:     diff.Counter.Total,
			Remaining: diff.Counter.Remaining,
			Defeated:  diff.Counter.Defeated(),
			OOB:       true,
		}
	}
	return tpl.ExecuteTemplate(w, "hit", hv)
}

func screenView(snap game.Snapshot) ScreenView {
	sv := ScreenView{Width: snap.Width, Won: snap.Won}
	for _, row := range snap.Rows {
		cells := make([]CellView, 0, len(row))
		for _, c := range row {
			cells = append(cells, CellView{
				ID:      c.Point.String(),
				Exposed: c.Exposed,
				Ship:    c.Ship,
			})
		}
		sv.Rows = append(sv.Rows, cells)
	}
	for _, c := range snap.Counters {
		sv.Counters = append(sv.Counters, CounterView{
			Name:      c.Name,
			Total:     c.Total,
			Remaining: c.Remaining,
			Defeated:  c.Defeated(),
		})
	}
	return sv
}

func revealView(r game.CellReveal, oob bool) CellView {
	return CellView{
		ID:      r.Point.String(),
		Exposed: true,
		Ship:    r.Ship,
		OOB:     oob,
	}
}
