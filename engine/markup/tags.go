package markup

import (
	"github.com/derekparker/trie"
)

// TagID identifies a markup tag.
type TagID int

// Tags
const (
	NoTag TagID = iota
	TagBold
	TagItalic
	TagUnderline
	TagStrikethrough
	TagMark
	TagSuperscript
	TagSubscript
	TagColor
	TagAlpha
	TagSize
	TagFont
	TagFontWeight
	TagSprite
	TagAlign
	TagWidth
	TagIndent
	TagLineIndent
	TagLineHeight
	TagCSpace
	TagMSpace
	TagVOffset
	TagMargin
	TagMarginLeft
	TagMarginRight
	TagPos
	TagSpace
	TagRotate
	TagLowercase
	TagUppercase
	TagSmallCaps
	TagNoBreak
	TagNoParse
	TagPage
	TagLink
	TagLineBreak
	TagNBSP
	TagZWSP
	TagZWJ
	TagSoftHyphen
	TagCR
)

// valueKind is the form of value a tag accepts.
type valueKind uint8

const (
	noValue       valueKind = iota // <b>
	optionalColor                  // <mark>, <mark=#FF000080>
	colorValue                     // <color=red>
	alphaValue                     // <alpha=#80>
	numberValue                    // <size=12>, <size=+2>, <indent=10%>
	stringValue                    // <font="Mono">, <link=id>
	alignValue                     // <align=center>
	weightValue                    // <font-weight=700>
	spriteValue                    // <sprite=3>, <sprite name="x">, <sprite="asset" index=1>
)

type tagDef struct {
	id        TagID
	value     valueKind
	char      rune // for character tags
	closeable bool
}

// MaxTagLength is the maximum length of a tag in bytes, including '<' and '>'.
const MaxTagLength = 128

var tagDefs = map[string]tagDef{
	"b":            {TagBold, noValue, 0, true},
	"i":            {TagItalic, noValue, 0, true},
	"u":            {TagUnderline, noValue, 0, true},
	"s":            {TagStrikethrough, noValue, 0, true},
	"mark":         {TagMark, optionalColor, 0, true},
	"sup":          {TagSuperscript, noValue, 0, true},
	"sub":          {TagSubscript, noValue, 0, true},
	"color":        {TagColor, colorValue, 0, true},
	"alpha":        {TagAlpha, alphaValue, 0, true},
	"size":         {TagSize, numberValue, 0, true},
	"font":         {TagFont, stringValue, 0, true},
	"font-weight":  {TagFontWeight, weightValue, 0, true},
	"sprite":       {TagSprite, spriteValue, 0, false},
	"align":        {TagAlign, alignValue, 0, true},
	"width":        {TagWidth, numberValue, 0, true},
	"indent":       {TagIndent, numberValue, 0, true},
	"line-indent":  {TagLineIndent, numberValue, 0, true},
	"line-height":  {TagLineHeight, numberValue, 0, true},
	"cspace":       {TagCSpace, numberValue, 0, true},
	"mspace":       {TagMSpace, numberValue, 0, true},
	"voffset":      {TagVOffset, numberValue, 0, true},
	"margin":       {TagMargin, numberValue, 0, true},
	"margin-left":  {TagMarginLeft, numberValue, 0, true},
	"margin-right": {TagMarginRight, numberValue, 0, true},
	"pos":          {TagPos, numberValue, 0, false},
	"space":        {TagSpace, numberValue, 0, false},
	"rotate":       {TagRotate, numberValue, 0, true},
	"lowercase":    {TagLowercase, noValue, 0, true},
	"uppercase":    {TagUppercase, noValue, 0, true},
	"allcaps":      {TagUppercase, noValue, 0, true},
	"smallcaps":    {TagSmallCaps, noValue, 0, true},
	"nobr":         {TagNoBreak, noValue, 0, true},
	"noparse":      {TagNoParse, noValue, 0, true},
	"page":         {TagPage, noValue, 0, false},
	"link":         {TagLink, stringValue, 0, true},
	"br":           {TagLineBreak, noValue, '\n', false},
	"nbsp":         {TagNBSP, noValue, 0x00A0, false},
	"zwsp":         {TagZWSP, noValue, 0x200B, false},
	"zwj":          {TagZWJ, noValue, 0x200D, false},
	"shy":          {TagSoftHyphen, noValue, 0x00AD, false},
	"cr":           {TagCR, noValue, '\r', false},
}

// tagTable holds tag names for lookup while scanning.
var tagTable = func() *trie.Trie {
	t := trie.New()
	for name, def := range tagDefs {
		t.Add(name, def)
	}
	return t
}()

var tagNames = func() map[TagID]string {
	m := make(map[TagID]string, len(tagDefs))
	for name, def := range tagDefs {
		if name != "allcaps" {
			m[def.id] = name
		}
	}
	return m
}()

func (id TagID) String() string {
	if name, ok := tagNames[id]; ok {
		return name
	}
	return "<none>"
}

// lookupTag finds a tag definition by (lower-case) name.
func lookupTag(name string) (tagDef, bool) {
	node, ok := tagTable.Find(name)
	if !ok {
		return tagDef{}, false
	}
	def, ok := node.Meta().(tagDef)
	return def, ok
}

// isTagPrefix is true if some tag name starts with prefix.
func isTagPrefix(prefix string) bool {
	return len(tagTable.PrefixSearch(prefix)) > 0
}

// IsCharacterTag is true for tags which stand for a character.
func (id TagID) IsCharacterTag() bool {
	return id >= TagLineBreak && id <= TagCR
}
