// Package scene turns snowman part states into drawing commands on a
// 300x400 canvas. It is pure: the same parts always give the same shapes.
package scene

import (
	"fmt"
	"strings"

	"snowmelt/internal/melt"
)

const (
	Width   = 300
	Height  = 400
	CenterX = Width / 2
)

// PartNames labels the parts in build order.
var PartNames = []string{"base", "middle", "head", "left arm", "right arm", "face", "hat"}

type Kind string

const (
	KindEllipse Kind = "ellipse"
	KindLine    Kind = "line"
	KindArc     Kind = "arc" // lower half of the bounding ellipse
	KindRect    Kind = "rect"
)

// Shape is one drawing command. Ellipse, arc and rect use the bounding box
// X, Y, W, H; lines use X1, Y1, X2, Y2.
type Shape struct {
	Kind Kind    `json:"kind"`
	Part int     `json:"part"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	W    float64 `json:"w,omitempty"`
	H    float64 `json:"h,omitempty"`
	X1   float64 `json:"x1,omitempty"`
	Y1   float64 `json:"y1,omitempty"`
	X2   float64 `json:"x2,omitempty"`
	Y2   float64 `json:"y2,omitempty"`
}

// Build maps part states to shapes. Parts with scale 0 draw nothing and
// indices past the known parts are ignored.
func Build(parts []melt.Part) []Shape {
	var shapes []Shape
	for i, p := range parts {
		if p.Scale <= 0 || i >= len(PartNames) {
			continue
		}
		shapes = append(shapes, partShapes(i, p)...)
	}
	return shapes
}

func partShapes(i int, p melt.Part) []Shape {
	s, off := p.Scale, p.Offset
	switch i {
	case 0:
		return []Shape{snowball(i, 200, 140, s, off)}
	case 1:
		return []Shape{snowball(i, 120, 110, s, off)}
	case 2:
		return []Shape{snowball(i, 60, 80, s, off)}
	case 3:
		return []Shape{line(i, CenterX-40, 170, CenterX-90, 140, s, off)}
	case 4:
		return []Shape{line(i, CenterX+40, 170, CenterX+90, 140, s, off)}
	case 5:
		return []Shape{
			box(KindEllipse, i, CenterX-15, 90, 5, 5, s, off),
			box(KindEllipse, i, CenterX+10, 90, 5, 5, s, off),
			box(KindArc, i, CenterX-15, 105, 30, 15, s, off),
		}
	case 6:
		return []Shape{
			line(i, CenterX-40, 65, CenterX+40, 65, s, off),
			box(KindRect, i, CenterX-25, 25, 50, 40, s, off),
		}
	}
	return nil
}

// snowball shrinks toward its bottom edge so a melting ball sinks in place.
func snowball(part int, y, size, s, off float64) Shape {
	return Shape{
		Kind: KindEllipse,
		Part: part,
		X:    CenterX - size*s/2,
		Y:    y + (1-s)*size + off,
		W:    size * s,
		H:    size * s,
	}
}

// box scales a bounding box about its center.
func box(kind Kind, part int, x, y, w, h, s, off float64) Shape {
	cx, cy := x+w/2, y+h/2
	return Shape{
		Kind: kind,
		Part: part,
		X:    cx - w*s/2,
		Y:    cy - h*s/2 + off,
		W:    w * s,
		H:    h * s,
	}
}

// line scales a segment about its midpoint.
func line(part int, x1, y1, x2, y2, s, off float64) Shape {
	cx, cy := (x1+x2)/2, (y1+y2)/2
	return Shape{
		Kind: KindLine,
		Part: part,
		X1:   cx + (x1-cx)*s,
		Y1:   cy + (y1-cy)*s + off,
		X2:   cx + (x2-cx)*s,
		Y2:   cy + (y2-cy)*s + off,
	}
}

// SVG renders the shape as a single SVG element.
func (sh Shape) SVG() string {
	switch sh.Kind {
	case KindEllipse:
		return fmt.Sprintf(`<ellipse data-part="%d" cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f"/>`,
			sh.Part, sh.X+sh.W/2, sh.Y+sh.H/2, sh.W/2, sh.H/2)
	case KindLine:
		return fmt.Sprintf(`<line data-part="%d" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`,
			sh.Part, sh.X1, sh.Y1, sh.X2, sh.Y2)
	case KindArc:
		cy := sh.Y + sh.H/2
		return fmt.Sprintf(`<path data-part="%d" fill="none" d="M %.1f %.1f A %.1f %.1f 0 0 0 %.1f %.1f"/>`,
			sh.Part, sh.X, cy, sh.W/2, sh.H/2, sh.X+sh.W, cy)
	case KindRect:
		return fmt.Sprintf(`<rect data-part="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`,
			sh.Part, sh.X, sh.Y, sh.W, sh.H)
	}
	return ""
}

// RenderSVG draws the whole snowman as an inline SVG document.
func RenderSVG(parts []melt.Part) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="snowman" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, Width, Height)
	for _, sh := range Build(parts) {
		b.WriteString(sh.SVG())
	}
	b.WriteString(`</svg>`)
	return b.String()
}
