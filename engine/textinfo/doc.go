/*
Package textinfo holds the result of laying out a text: tables of
characters, words, lines, pages and links, material references and the
mesh buffers to render.

A TextInfo is owned by the layout engine which produced it. It is
rewritten on every layout pass; clients must not modify it.

Buffers grow in steps: to the next power of two below 1024 elements, in
steps of 256 elements above. They shrink only if the slack exceeds 256
elements and shrinking has been requested, so a text which is edited
frame by frame does not cause reallocations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package textinfo

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textmesh.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.layout")
}
