/*
Package fontregistry manages a registry for loaded font and sprite assets.

The registry holds the engine-wide lists glyph resolution walks when a
requested font misses a character: the global fallback list, the emoji
fallback list and the default asset.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'textmesh.fonts'
func tracer() tracing.Trace {
	return tracing.Select("textmesh.fonts")
}
