package texture

import (
	"os"
	"testing"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

func TestGenerateDeterministic(t *testing.T) {
	p := Params{Size: 32, Seed: 7, Variation: 0.8}
	a, err := Generate(types.TextureWood, p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(types.TextureWood, p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(a.Pix) != string(b.Pix) {
		t.Fatal("same seed should produce the same grain")
	}
}

func TestGenerateSmoothIsNeutral(t *testing.T) {
	g, err := Generate(types.TextureSmooth, Params{Size: 8, Seed: 1, Variation: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, v := range g.Pix {
		if v != 128 {
			t.Fatalf("pixel %d = %d, want 128", i, v)
		}
	}
}

func TestGenerateTexturedKindsVary(t *testing.T) {
	for _, kind := range []types.Texture{types.TextureWood, types.TextureLinen, types.TextureMatte} {
		t.Run(string(kind), func(t *testing.T) {
			g, err := Generate(kind, Params{Size: 48, Seed: 3, Variation: 1})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			lo, hi := uint8(255), uint8(0)
			for _, v := range g.Pix {
				lo = min(lo, v)
				hi = max(hi, v)
			}
			if hi-lo < 4 {
				t.Fatalf("expected visible grain, range %d..%d", lo, hi)
			}
		})
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := Generate(types.TextureWood, Params{Size: 0}); err == nil {
		t.Fatal("expected error for zero size")
	}
	if _, err := Generate("velvet", Params{Size: 8}); err == nil {
		t.Fatal("expected error for unknown texture")
	}
}

func TestWriteDefaultTextures(t *testing.T) {
	dir := t.TempDir()
	p := Params{Size: 16, Seed: 1337, Variation: 0.8}

	result, err := WriteDefaultTextures(dir, p, false)
	if err != nil {
		t.Fatalf("write textures: %v", err)
	}
	if len(result.Written) != 3 {
		t.Fatalf("expected 3 textures written, got %v", result.Written)
	}
	for _, path := range result.Written {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing generated texture %s: %v", path, err)
		}
	}

	again, err := WriteDefaultTextures(dir, p, false)
	if err != nil {
		t.Fatalf("rewrite textures: %v", err)
	}
	if len(again.Skipped) != 3 || len(again.Written) != 0 {
		t.Fatalf("expected all textures skipped, got %+v", again)
	}
}
