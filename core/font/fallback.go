package font

import (
	"sync"

	"golang.org/x/image/font/gofont/goregular"
)

// --- Fallback font ---------------------------------------------------------

// FallbackPointSize is the reference point size of the fallback asset.
const FallbackPointSize = 36

// FallbackFont returns a font asset to be used if everything else failes.
// It is always present. Currently we use Go Sans.
func FallbackFont() *FontAsset {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font asset that is used if everything else failes.
var fallbackFont *FontAsset

func loadFallbackFont() *FontAsset {
	f, err := LoadOpenType("Go Sans", goregular.TTF, FallbackPointSize, 1024)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return f
}
