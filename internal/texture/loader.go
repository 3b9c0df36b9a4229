package texture

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "image/png" // Register PNG decoder

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Library holds one grain map per texture kind. Kinds missing from disk are
// generated on first use.
type Library struct {
	dir    string
	params Params
	logger *slog.Logger

	mu    sync.Mutex
	grain map[types.Texture]*image.Gray
}

// NewLibrary creates a library reading from dir. An empty dir means every
// texture is generated in memory.
func NewLibrary(dir string, params Params, logger *slog.Logger) *Library {
	if params.Size <= 0 {
		params = DefaultParams
	}
	return &Library{
		dir:    dir,
		params: params,
		logger: logger,
		grain:  make(map[types.Texture]*image.Gray),
	}
}

// Grain returns the grain map for kind.
func (l *Library) Grain(kind types.Texture) (*image.Gray, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if g, ok := l.grain[kind]; ok {
		return g, nil
	}

	var g *image.Gray
	if l.dir != "" && kind != types.TextureSmooth {
		loaded, err := loadGray(filepath.Join(l.dir, Filename(kind)))
		switch {
		case err == nil:
			g = loaded
		case os.IsNotExist(err):
			l.log().Debug("Texture not on disk, generating", "texture", kind, "dir", l.dir)
		default:
			return nil, err
		}
	}
	if g == nil {
		generated, err := Generate(kind, l.params)
		if err != nil {
			return nil, err
		}
		g = generated
	}

	l.grain[kind] = g
	return g, nil
}

func loadGray(path string) (*image.Gray, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}
	g := image.NewGray(img.Bounds())
	draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	return g, nil
}

func (l *Library) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}
