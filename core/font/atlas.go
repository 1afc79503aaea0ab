package font

// packer allocates glyph rectangles in atlas textures, filling rows
// ("shelves") from bottom to top. When an atlas is full, packing continues
// in a new atlas texture.
type packer struct {
	width, height int
	padding       int
	atlas         int     // current atlas index
	shelves       []shelf // shelves of the current atlas
}

type shelf struct {
	y, height int
	x         int // next free x position
}

func newPacker(width, height, padding int) *packer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	return &packer{width: width, height: height, padding: padding}
}

// allocate reserves a w×h rectangle plus padding. It fails only for
// rectangles larger than an atlas texture.
func (p *packer) allocate(w, h int) (GlyphRect, int, bool) {
	pw, ph := w+2*p.padding, h+2*p.padding
	if pw > p.width || ph > p.height {
		return GlyphRect{}, 0, false
	}
	if r, ok := p.fit(w, h, pw, ph); ok {
		return r, p.atlas, true
	}
	p.atlas++
	p.shelves = p.shelves[:0]
	r, ok := p.fit(w, h, pw, ph)
	return r, p.atlas, ok
}

func (p *packer) fit(w, h, pw, ph int) (GlyphRect, bool) {
	for i := range p.shelves {
		s := &p.shelves[i]
		if ph <= s.height && s.x+pw <= p.width {
			r := GlyphRect{X: s.x + p.padding, Y: s.y + p.padding, Width: w, Height: h}
			s.x += pw
			return r, true
		}
	}
	top := 0
	if n := len(p.shelves); n > 0 {
		top = p.shelves[n-1].y + p.shelves[n-1].height
	}
	if top+ph > p.height {
		return GlyphRect{}, false
	}
	p.shelves = append(p.shelves, shelf{y: top, height: ph, x: pw})
	return GlyphRect{X: p.padding, Y: top + p.padding, Width: w, Height: h}, true
}
