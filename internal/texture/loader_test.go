package texture

import (
	"testing"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

func TestLibraryLoadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	p := Params{Size: 16, Seed: 99, Variation: 0.5}
	if _, err := WriteDefaultTextures(dir, p, true); err != nil {
		t.Fatalf("write textures: %v", err)
	}

	lib := NewLibrary(dir, Params{Size: 24, Seed: 1, Variation: 1}, nil)
	g, err := lib.Grain(types.TextureLinen)
	if err != nil {
		t.Fatalf("grain: %v", err)
	}
	if g.Bounds().Dx() != 16 {
		t.Fatalf("expected the 16px texture from disk, got %v", g.Bounds())
	}
}

func TestLibraryGeneratesMissing(t *testing.T) {
	lib := NewLibrary(t.TempDir(), Params{Size: 12, Seed: 5, Variation: 0.5}, nil)
	g, err := lib.Grain(types.TextureMatte)
	if err != nil {
		t.Fatalf("grain: %v", err)
	}
	if g.Bounds().Dx() != 12 {
		t.Fatalf("expected generated 12px texture, got %v", g.Bounds())
	}

	again, err := lib.Grain(types.TextureMatte)
	if err != nil {
		t.Fatalf("grain: %v", err)
	}
	if again != g {
		t.Fatal("expected cached grain map")
	}
}
