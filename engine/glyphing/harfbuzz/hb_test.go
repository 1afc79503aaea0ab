package harfbuzz_test

import (
	"fmt"
	"testing"

	hb "github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textmesh/core"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/core/font/fonttest"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/glyphing/harfbuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

func TestHBScript(t *testing.T) {
	id := "Plrd"
	script := language.MustParseScript(id)
	hb_script := harfbuzz.Script4HB(script)
	hstr := fmt.Sprintf("%x", uint32(hb_script))
	if hstr != "706c7264" {
		t.Logf("script %q: %x => %x", id, script, uint32(hb_script))
		t.Errorf("expected HB script of 706c7264, is %s", hstr)
	}
}

func TestHBLang(t *testing.T) {
	l := "de_DE"
	langT, err := language.Parse(l)
	if err != nil {
		t.Error(err)
	}
	h := harfbuzz.Lang4HB(langT)
	if h != "de-de" {
		t.Logf("Go lang = %v", langT)
		t.Logf("HB lang = %v, expected de-de", h)
		t.Fail()
	}
}

func TestHBDir(t *testing.T) {
	dir := harfbuzz.Direction4HB(glyphing.RightToLeft)
	if dir != hb.RightToLeft {
		t.Errorf("expected dir to be %d, is %d", hb.RightToLeft, dir)
	}
}

func TestImportFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.glyphs")
	defer teardown()
	//
	asset, err := font.LoadOpenType("Go Sans", goregular.TTF, 12, 512)
	require.NoError(t, err)
	pairs, ligs, err := harfbuzz.ImportFeatures(asset, "AVTWYaeo.,", harfbuzz.Options{
		Language: language.English,
	})
	require.NoError(t, err)
	t.Logf("imported %d pairs, %d ligatures", pairs, ligs)
	assert.Equal(t, pairs, len(asset.Features.Pairs))
	for _, p := range asset.Features.Pairs {
		assert.NotZero(t, p.FirstAdjust.XAdvance)
	}
}

func TestImportFeaturesNeedsOpenType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.glyphs")
	defer teardown()
	//
	_, _, err := harfbuzz.ImportFeatures(fonttest.Mono(), "AV", harfbuzz.Options{})
	assert.Equal(t, core.EINVALID, core.Code(err))
}
