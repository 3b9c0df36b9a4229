package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Params controls procedural grain generation.
type Params struct {
	Size int
	Seed int64
	// Variation scales the grain contrast, 0..1.
	Variation float64
}

// DefaultParams matches the textures shipped with the storefront.
var DefaultParams = Params{Size: 256, Seed: 1337, Variation: 0.8}

// TextureWriteResult reports which textures were written or skipped.
type TextureWriteResult struct {
	Written []string
	Skipped []string
}

// Filename returns the on-disk name of a texture kind.
func Filename(kind types.Texture) string {
	return string(kind) + ".png"
}

// Generate builds a seamless grayscale grain map for kind. Mid grey (128)
// leaves the frame colour unchanged; lighter and darker values shade it.
func Generate(kind types.Texture, p Params) (*image.Gray, error) {
	if p.Size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}
	p.Variation = clamp01(p.Variation)

	var sample func(x, y float64) float64
	blur := float32(0)

	switch kind {
	case types.TextureSmooth:
		sample = func(x, y float64) float64 { return 0 }
	case types.TextureWood:
		sample = woodSampler(p.Seed)
		blur = 0.8
	case types.TextureLinen:
		sample = linenSampler(p.Seed)
		blur = 0.5
	case types.TextureMatte:
		sample = matteSampler(p.Seed)
		blur = 1.2
	default:
		return nil, fmt.Errorf("unknown texture %q", kind)
	}

	n := p.Size
	img := image.NewGray(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := seamless(sample, float64(x), float64(y), float64(n))
			g := 128 + 127*p.Variation*clampSigned(v)
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(g))})
		}
	}

	if blur > 0 {
		g := gift.New(gift.GaussianBlur(blur))
		dst := image.NewGray(g.Bounds(img.Bounds()))
		g.Draw(dst, img)
		img = dst
	}
	return img, nil
}

// seamless cross-fades four shifted copies of f so the tile wraps at size.
func seamless(f func(x, y float64) float64, x, y, size float64) float64 {
	fx := x / size
	fy := y / size
	return f(x, y)*(1-fx)*(1-fy) +
		f(x-size, y)*fx*(1-fy) +
		f(x, y-size)*(1-fx)*fy +
		f(x-size, y-size)*fx*fy
}

// woodSampler produces long horizontal rings bent by low-frequency noise.
func woodSampler(seed int64) func(x, y float64) float64 {
	p := perlin.NewPerlin(2.0, 2.0, 3, seed)
	return func(x, y float64) float64 {
		warp := p.Noise2D(x/96, y/24) * 6
		rings := math.Sin((y/3.5 + warp) * 0.9)
		fibre := p.Noise2D(x/4, y/48) * 0.35
		return 0.55*rings + fibre
	}
}

// linenSampler produces a fine crosshatch weave with slub noise.
func linenSampler(seed int64) func(x, y float64) float64 {
	p := perlin.NewPerlin(2.0, 2.0, 2, seed)
	return func(x, y float64) float64 {
		warp := math.Sin(x * math.Pi / 2)
		weft := math.Sin(y * math.Pi / 2)
		slub := p.Noise2D(x/32, y/3)
		return 0.3*(warp+weft) + 0.4*slub
	}
}

// matteSampler produces a soft speckle.
func matteSampler(seed int64) func(x, y float64) float64 {
	p := perlin.NewPerlin(1.5, 2.0, 4, seed)
	return func(x, y float64) float64 {
		return p.Noise2D(x/6, y/6) * 0.8
	}
}

// WriteDefaultTextures generates the grain maps for every textured kind into dir.
func WriteDefaultTextures(dir string, p Params, overwrite bool) (TextureWriteResult, error) {
	result := TextureWriteResult{}
	if p.Size <= 0 {
		return result, fmt.Errorf("size must be positive")
	}
	if p.Variation < 0 || p.Variation > 1 {
		return result, fmt.Errorf("variation must be within [0,1]")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create texture dir: %w", err)
	}

	for i, kind := range types.Textures {
		if kind == types.TextureSmooth {
			continue
		}
		path := filepath.Join(dir, Filename(kind))
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				result.Skipped = append(result.Skipped, path)
				continue
			}
		}

		params := p
		params.Seed = p.Seed + int64(i)*1000
		img, err := Generate(kind, params)
		if err != nil {
			return result, err
		}
		if err := writePNG(path, img); err != nil {
			return result, err
		}
		result.Written = append(result.Written, path)
	}

	return result, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create texture %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode texture %s: %w", path, err)
	}
	return nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampSigned(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
