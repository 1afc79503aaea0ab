/*
Package glyphing resolves code points to renderable text elements.

Resolution walks a chain of font assets: the emoji fallback list (for
characters with emoji presentation), the requested font (or its
alternative typeface for a weight and slant), the requested font's
fallbacks, the registry's global fallbacks, the default sprite asset and
finally the registry's default asset. If no asset contains a character, a
substitute is resolved instead: the configured missing-glyph character,
U+2623, space and end-of-text, in this order. End-of-text is synthesized
by every font asset, therefore resolution always succeeds for a non-nil
font.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textmesh.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.glyphs")
}
