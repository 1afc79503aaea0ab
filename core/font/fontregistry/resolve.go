package fontregistry

import (
	"context"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/textmesh/core"
	"github.com/npillmayer/textmesh/core/font"
)

// AtlasSize is the size of atlas textures for assets loaded from system
// fonts.
var AtlasSize = 1024

// AssetPromise delivers a font asset which is being loaded.
type AssetPromise interface {
	Asset() (*font.FontAsset, error)
	AssetContext(ctx context.Context) (*font.FontAsset, error)
}

type assetPlusErr struct {
	asset *font.FontAsset
	err   error
}

type assetLoader struct {
	await func(ctx context.Context) (*font.FontAsset, error)
}

func (loader assetLoader) Asset() (*font.FontAsset, error) {
	return loader.await(context.Background())
}

func (loader assetLoader) AssetContext(ctx context.Context) (*font.FontAsset, error) {
	return loader.await(ctx)
}

// ResolveAsset resolves a font asset by name. Assets already in the registry
// are returned immediately; otherwise the name is searched as a system font,
// loaded at pointSize and stored in the registry. If no font can be found,
// the promise delivers the registry's default asset together with an error.
func (fr *Registry) ResolveAsset(name string, pointSize float32) AssetPromise {
	ch := make(chan assetPlusErr, 1)
	go func(ch chan<- assetPlusErr) {
		defer close(ch)
		result := assetPlusErr{}
		if f, ok := fr.Asset(name); ok {
			result.asset = f
			ch <- result
			return
		}
		fpath, err := findfont.Find(name) // try to find as system font
		if err == nil && fpath != "" {
			tracer().Debugf("%s is a system font at %s", name, fpath)
			result.asset, result.err = LoadFile(name, fpath, pointSize)
		} else {
			result.err = core.WrapError(err, core.EMISSING, "font not found: %s", name)
		}
		if result.asset != nil {
			fr.StoreAsset(result.asset)
			result.asset, _ = fr.Asset(name)
		} else {
			tracer().Infof("font %s not found, using default asset", name)
			result.asset = fr.Default()
		}
		ch <- result
	}(ch)
	return assetLoader{
		await: func(ctx context.Context) (*font.FontAsset, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.asset, r.err
			}
		},
	}
}

// LoadFile loads an OpenType font file as a dynamic font asset.
func LoadFile(name, fpath string, pointSize float32) (*font.FontAsset, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fpath)
	}
	return font.LoadOpenType(name, data, pointSize, AtlasSize)
}
