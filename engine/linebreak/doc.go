/*
Package linebreak classifies characters for line breaking.

Line breaks may occur after whitespace (except non-breaking spaces), after
zero width spaces, after hyphens which do not follow whitespace, at soft
hyphens and between ideographic characters. East Asian breaking honors
two sets of characters: leading characters, which must not start a line,
and following characters, which must not end a line. Hangul syllables are
broken like ideographs, unless modern Hangul line breaking (breaking at
spaces only) is selected.

The rules implemented here are a pragmatic subset of UAX #14. They are
not a conformant implementation of the Unicode line breaking algorithm.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package linebreak

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textmesh.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.layout")
}
