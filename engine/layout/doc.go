/*
Package layout lays out rich text and generates glyph meshes.

A Text holds a string with markup, a font asset and layout parameters.
GenerateTextMesh runs the layout engine over the text and fills a
textinfo.TextInfo with character, word, line and page tables and one
vertex buffer per material.

The engine is a state machine over the processing array produced by
package markup. It keeps checkpoints of its state (the last word break,
the last soft break, the start of the line, the state before the current
character and a stack of positions where an ellipsis would fit) and
rewinds to one of them when text does not fit. Checkpoints are plain
copies of the engine state; style stacks are persistent, so copying the
state is cheap.

Auto-sizing re-runs the complete layout with adjusted parameters: first
line spacing is reduced, then character widths, then the point size is
bisected between running bounds. The number of passes is bounded.

	text := layout.NewText("Hello <b>World</b>", asset)
	text.Rect = dimen.RectWH(200, 50)
	if err := text.GenerateTextMesh(); err != nil {
	    …
	}
	info := text.TextInfo()

A Text is not safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textmesh.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.layout")
}
