/*
Command tmcli lays out rich text interactively and prints the resulting
character, line and mesh tables.

	tmcli -font "DejaVu Sans" -size 24 -width 300 -height 100

Without a font name, a built-in monospace test font is used. At the prompt,
enter text to lay out, or one of the commands listed by "help".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/textmesh/core"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/core/font/fontregistry"
	"github.com/npillmayer/textmesh/core/font/fonttest"
	"github.com/npillmayer/textmesh/engine/glyphing/harfbuzz"
	"github.com/npillmayer/textmesh/engine/layout"
	"github.com/npillmayer/textmesh/engine/textinfo"
	"github.com/pterm/pterm"
)

// tracer traces with key 'textmesh.cli'
func tracer() tracing.Trace {
	return tracing.Select("textmesh.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.textmesh.cli":    "Info",
		"trace.textmesh.layout": "Error",
		"trace.textmesh.fonts":  "Error",
		"trace.textmesh.glyphs": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "System font to use (default: built-in test font)")
	size := flag.Float64("size", fonttest.PointSize, "Font size")
	width := flag.Float64("width", 200, "Width of the text container")
	height := flag.Float64("height", 50, "Height of the text container")
	flag.Parse()
	switch strings.ToLower(*tlevel) {
	case "debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().SetTraceLevel(tracing.LevelInfo)
	}
	pterm.Info.Println("Welcome to the TextMesh CLI")
	//
	f, err := loadFont(*fontname, float32(*size))
	if err != nil {
		core.ReportError(os.Stderr, err)
		os.Exit(4)
	}
	txt := layout.NewText("", f)
	txt.FontSize = float32(*size)
	txt.Rect = dimen.RectWH(float32(*width), float32(*height))
	//
	repl, err := readline.New("tm > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, text: txt, show: "lines"}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// loadFont finds a system font and imports its kerning and ligatures. An
// empty name selects the monospace test font.
func loadFont(name string, size float32) (*font.FontAsset, error) {
	if name == "" {
		return fonttest.Mono(), nil
	}
	reg := fontregistry.GlobalRegistry()
	f, err := reg.ResolveAsset(name, size).Asset()
	if err != nil {
		return nil, err
	}
	pairs, ligs, err := harfbuzz.ImportFeatures(f, charset, harfbuzz.Options{})
	if err != nil {
		tracer().Infof("no features imported: %v", err)
	} else {
		tracer().Infof("imported %d pair adjustments and %d ligatures", pairs, ligs)
	}
	return f, nil
}

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,;:-'\""

// Intp is our interpreter object
type Intp struct {
	repl *readline.Instance
	text *layout.Text
	show string // table printed after a layout
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// execute interprets a command line. Lines which are no command are laid
// out as text.
func (intp *Intp) execute(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(cmd) {
	case "quit":
		return true, nil
	case "help":
		help()
		return false, nil
	case "set":
		key, value, _ := strings.Cut(strings.TrimSpace(arg), " ")
		if err := intp.set(key, strings.TrimSpace(value)); err != nil {
			return false, err
		}
		return false, intp.layout()
	case "show":
		switch arg {
		case "chars", "lines", "meshes", "decorations":
			intp.show = arg
			intp.print()
			return false, nil
		}
		return false, core.Error(core.EINVALID, "cannot show %q", arg)
	case "text":
		line = arg
	}
	intp.text.SetText(line)
	return false, intp.layout()
}

func (intp *Intp) layout() error {
	if intp.text.Text() == "" {
		return nil
	}
	if err := intp.text.GenerateTextMesh(); err != nil {
		return err
	}
	ti := intp.text.TextInfo()
	pterm.Printfln("%d characters, %d lines, %d pages at size %.2f (%d passes)",
		ti.CharacterCount, ti.LineCount, ti.PageCount, intp.text.FontSizeUsed(),
		intp.text.AutoSizeIterations())
	intp.print()
	return nil
}

func (intp *Intp) set(key, value string) error {
	t := intp.text
	num := func() (float32, error) {
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return 0, core.WrapError(err, core.EINVALID, "%s needs a number", key)
		}
		return float32(f), nil
	}
	on := func() bool {
		return value == "on" || value == "true" || value == "1"
	}
	switch key {
	case "size":
		v, err := num()
		t.FontSize = v
		return err
	case "width":
		v, err := num()
		t.Rect.Max.X = t.Rect.Min.X + v
		return err
	case "height":
		v, err := num()
		t.Rect.Max.Y = t.Rect.Min.Y + v
		return err
	case "wrap":
		t.WordWrapping = on()
	case "autosize":
		t.AutoSize = on()
	case "rich":
		t.RichText = on()
	case "kerning":
		t.Kerning = on()
	case "ligatures":
		t.Ligatures = on()
	case "overflow":
		m, ok := overflowModes[value]
		if !ok {
			return core.Error(core.EINVALID, "unknown overflow mode %q", value)
		}
		t.Overflow = m
	case "align":
		a, ok := alignments[value]
		if !ok {
			return core.Error(core.EINVALID, "unknown alignment %q", value)
		}
		t.Alignment.H = a
	case "page":
		v, err := num()
		t.PageToDisplay = int(v)
		return err
	default:
		return core.Error(core.EINVALID, "unknown parameter %q", key)
	}
	return nil
}

var overflowModes = map[string]layout.OverflowMode{
	"overflow": layout.Overflow,
	"truncate": layout.Truncate,
	"ellipsis": layout.Ellipsis,
	"page":     layout.Page,
	"masking":  layout.Masking,
}

var alignments = map[string]textinfo.HAlign{
	"left":      layout.Left,
	"center":    layout.Center,
	"right":     layout.Right,
	"justified": layout.Justified,
	"flush":     layout.Flush,
	"geometry":  layout.Geometry,
}

func (intp *Intp) print() {
	ti := intp.text.TextInfo()
	var data pterm.TableData
	switch intp.show {
	case "chars":
		data = pterm.TableData{{"#", "char", "line", "page", "x", "advance", "baseline", "visible"}}
		for i := 0; i < ti.CharacterCount; i++ {
			c := ti.Characters[i]
			data = append(data, []string{
				strconv.Itoa(i), printable(c.Unicode), strconv.Itoa(c.LineNumber),
				strconv.Itoa(c.PageNumber), ff(c.Origin), ff(c.Advance), ff(c.Baseline),
				strconv.FormatBool(c.IsVisible),
			})
		}
	case "meshes":
		data = pterm.TableData{{"#", "asset", "atlas", "spill", "quads"}}
		for i, m := range ti.Materials.References() {
			data = append(data, []string{
				strconv.Itoa(i), m.AssetName, strconv.Itoa(m.Key.AtlasIndex),
				strconv.Itoa(m.Spill), strconv.Itoa(ti.Meshes[i].QuadCount),
			})
		}
	case "decorations":
		data = pterm.TableData{{"kind", "first", "last", "x0", "y0", "x1", "y1"}}
		for _, d := range ti.Decorations {
			data = append(data, []string{
				decorationNames[d.Kind], strconv.Itoa(d.FirstCharacterIndex),
				strconv.Itoa(d.LastCharacterIndex), ff(d.Rect.Min.X), ff(d.Rect.Min.Y),
				ff(d.Rect.Max.X), ff(d.Rect.Max.Y),
			})
		}
	default:
		data = pterm.TableData{{"#", "first", "last", "visible", "words", "width", "baseline", "align"}}
		for l := 0; l < ti.LineCount; l++ {
			line := ti.Lines[l]
			data = append(data, []string{
				strconv.Itoa(l), strconv.Itoa(line.FirstCharacterIndex),
				strconv.Itoa(line.LastCharacterIndex), strconv.Itoa(line.VisibleCharacterCount),
				strconv.Itoa(line.WordCount), ff(line.MaxAdvance), ff(line.Baseline),
				line.Alignment.String(),
			})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

var decorationNames = map[textinfo.DecorationKind]string{
	textinfo.UnderlineDecoration:     "underline",
	textinfo.StrikethroughDecoration: "strike",
	textinfo.HighlightDecoration:     "highlight",
}

func ff(x float32) string {
	return strconv.FormatFloat(float64(x), 'f', 2, 32)
}

func printable(r rune) string {
	if r < ' ' {
		return fmt.Sprintf("U+%04X", r)
	}
	return string(r)
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	<text>               lay out text (markup allowed)
	text <text>          same, for text starting with a command name
	set <param> <value>  size, width, height, wrap, autosize, rich, kerning,
	                     ligatures, overflow, align, page
	show <table>         chars, lines, meshes or decorations
	quit                 leave the CLI
	`)
}
