package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"snowmelt/internal/melt"
)

const (
	artWidth  = 15
	artHeight = 10
	maxSink   = 3 // rows a melting part can slide down
	puddleRow = artHeight + maxSink
)

// placement is one run of characters owned by a part. Spaces are transparent.
type placement struct {
	part     int
	row, col int
	text     string
}

// snowmanArt lists placements in draw order, base first.
var snowmanArt = []placement{
	{0, 7, 2, "(         )"},
	{0, 8, 2, "(         )"},
	{0, 9, 2, "(_________)"},
	{1, 5, 3, "(   :   )"},
	{1, 6, 3, "(   :   )"},
	{2, 3, 4, "(     )"},
	{2, 4, 4, "(     )"},
	{3, 5, 1, "\\_"},
	{4, 5, 12, "_/"},
	{5, 3, 6, "o o"},
	{5, 4, 6, "\\_/"},
	{6, 0, 5, "_____"},
	{6, 1, 4, "|_____|"},
	{6, 2, 3, "========="},
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellSnow
	cellMelting
	cellPuddle
)

type cell struct {
	r    rune
	kind cellKind
}

// shrink keeps the centered fraction scale of text and reports how far the
// kept part moved right.
func shrink(text string, scale float64) (string, int) {
	runes := []rune(text)
	keep := int(math.Round(float64(len(runes)) * scale))
	if keep <= 0 {
		return "", 0
	}
	if keep >= len(runes) {
		return text, 0
	}
	skip := (len(runes) - keep) / 2
	return string(runes[skip : skip+keep]), skip
}

// sink converts a part's pixel offset into whole text rows.
func sink(offset float64) int {
	return min(int(offset/20), maxSink)
}

// drawGrid lays the snowman out as cells. A melting part shrinks about its
// center and slides down; gone parts leave a growing puddle.
func drawGrid(f melt.Frame) [][]cell {
	grid := make([][]cell, puddleRow+1)
	for i := range grid {
		grid[i] = make([]cell, artWidth)
	}

	gone := 0
	for _, p := range f.Parts {
		if p.Scale <= 0 {
			gone++
		}
	}

	for _, pl := range snowmanArt {
		if pl.part >= len(f.Parts) {
			continue
		}
		part := f.Parts[pl.part]
		if part.Scale <= 0 {
			continue
		}
		kind := cellSnow
		text, shift := pl.text, 0
		row := pl.row
		if pl.part == f.Active {
			kind = cellMelting
			text, shift = shrink(pl.text, part.Scale)
			row += sink(part.Offset)
		}
		for i, r := range []rune(text) {
			col := pl.col + shift + i
			if r == ' ' || col >= artWidth {
				continue
			}
			grid[row][col] = cell{r: r, kind: kind}
		}
	}

	if gone > 0 {
		width := min(2*gone+1, artWidth)
		start := (artWidth - width) / 2
		for i := 0; i < width; i++ {
			grid[puddleRow][start+i] = cell{r: '~', kind: cellPuddle}
		}
	}
	return grid
}

// renderArt styles the grid, one lipgloss render per run of equal cells.
func renderArt(f melt.Frame, st styles) string {
	var b strings.Builder
	for i, row := range drawGrid(f) {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j := 0; j < len(row); {
			k := j
			var run strings.Builder
			for k < len(row) && row[k].kind == row[j].kind {
				if row[k].kind == cellEmpty {
					run.WriteByte(' ')
				} else {
					run.WriteRune(row[k].r)
				}
				k++
			}
			b.WriteString(st.cell(row[j].kind).Render(run.String()))
			j = k
		}
	}
	return b.String()
}

type styles struct {
	title    lipgloss.Style
	snow     lipgloss.Style
	melting  lipgloss.Style
	puddle   lipgloss.Style
	word     lipgloss.Style
	muted    lipgloss.Style
	feedback lipgloss.Style
	won      lipgloss.Style
	lost     lipgloss.Style
	frame    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		snow:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		melting:  lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		puddle:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		word:     lipgloss.NewStyle().Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		feedback: lipgloss.NewStyle().Italic(true),
		won:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		lost:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (st styles) cell(k cellKind) lipgloss.Style {
	switch k {
	case cellSnow:
		return st.snow
	case cellMelting:
		return st.melting
	case cellPuddle:
		return st.puddle
	}
	return lipgloss.NewStyle()
}
