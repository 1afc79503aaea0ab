/*
Package markup parses rich text markup into a processing array.

Markup tags have the forms

	<name>  <name=value>  <name=value attr=value …>  <name attr=value …>  </name>

Tag names are case-insensitive. A '<' starts a tag only if a matching '>'
is found within MaxTagLength bytes, the name is a known tag and the value
has the form the tag accepts. Otherwise the '<' is literal text.

The parser validates tags and records them in the processing array; it
does not apply them. Each element of the processing array is either a
character (with the byte position and length of its source in the input
string), a tag, or a sprite.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package markup

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textmesh.markup'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.markup")
}
