package layout

import "github.com/chewxy/math32"

// autoSizer holds the parameters auto-sizing varies between passes. The
// point size is bisected between running bounds; before shrinking the
// point size, line spacing and character width are reduced.
type autoSizer struct {
	enabled          bool
	fontSize         float32
	minSize, maxSize float32 // running bounds
	sizeMin, sizeMax float32 // configured bounds
	charWidthAdj     float32 // fraction the character width is reduced by
	charWidthMax     float32
	lineSpacingDelta float32 // in 1/100 em
	lineSpacingMax   float32
	lastFit          float32 // largest size known to fit, or 0
	iterations       int
	maxIterations    int
	locked           bool
}

func newAutoSizer(t *Text) *autoSizer {
	as := &autoSizer{
		enabled:        t.AutoSize,
		fontSize:       t.FontSize,
		lineSpacingMax: t.LineSpacingMax,
		maxIterations:  t.Settings.AutoSizeMaxIterations,
	}
	if as.maxIterations <= 0 {
		as.maxIterations = 100
	}
	if as.enabled {
		as.sizeMin, as.sizeMax = t.FontSizeMin, t.FontSizeMax
		if as.sizeMax < as.sizeMin {
			as.sizeMin, as.sizeMax = as.sizeMax, as.sizeMin
		}
		as.fontSize = as.sizeMax
		as.minSize, as.maxSize = as.sizeMin, as.sizeMax
		as.charWidthMax = t.CharWidthMaxAdj / 100
	}
	return as
}

// canShrink is true if a pass which overflows may be retried.
func (as *autoSizer) canShrink() bool {
	return as.enabled && !as.locked && as.fontSize > as.sizeMin
}

// shrink adjusts the parameters after an overflow. overshoot is the
// amount of vertical overflow, lines the number of lines so far and em
// the size of 1/100 em.
func (as *autoSizer) shrink(vertical bool, overshoot float32, lines int, em float32) {
	if vertical && lines > 1 && as.lineSpacingDelta > as.lineSpacingMax && em > 0 {
		d := as.lineSpacingDelta - overshoot/float32(lines)/em
		as.lineSpacingDelta = math32.Max(d, as.lineSpacingMax)
		tracer().Debugf("auto-size: line spacing adjusted to %.2f", as.lineSpacingDelta)
		return
	}
	if as.charWidthAdj < as.charWidthMax {
		as.charWidthAdj = math32.Min(as.charWidthAdj+0.01, as.charWidthMax)
		tracer().Debugf("auto-size: character width reduced by %.0f%%", as.charWidthAdj*100)
		return
	}
	as.maxSize = as.fontSize
	step := math32.Max((as.fontSize-as.minSize)/2, 0.05)
	as.fontSize = math32.Max(round20(as.fontSize-step), as.sizeMin)
	tracer().Debugf("auto-size: shrinking to %.2f", as.fontSize)
}

// grow is called after a pass which fits. It returns true if a larger
// size should be tried.
func (as *autoSizer) grow() bool {
	if !as.enabled {
		return false
	}
	as.lastFit = math32.Max(as.lastFit, as.fontSize)
	if as.locked || as.fontSize >= as.sizeMax || as.maxSize-as.fontSize <= 0.051 {
		return false
	}
	as.minSize = as.fontSize
	step := math32.Max((as.maxSize-as.fontSize)/2, 0.05)
	as.fontSize = math32.Min(round20(as.fontSize+step), as.sizeMax)
	tracer().Debugf("auto-size: growing to %.2f", as.fontSize)
	return true
}

// lock stops auto-sizing; the next pass is the last one.
func (as *autoSizer) lock() {
	as.fontSize = as.bestSize()
	as.locked = true
}

func (as *autoSizer) bestSize() float32 {
	if as.lastFit > 0 {
		return as.lastFit
	}
	return as.fontSize
}

// round20 rounds to multiples of 0.05.
func round20(x float32) float32 {
	return float32(int(x*20+0.5)) / 20
}
