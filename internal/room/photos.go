package room

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Photo is one reference room photo.
type Photo struct {
	Name  string
	Data  []byte
	Image image.Image
}

// PhotoSet is the ordered photos for one frame key.
type PhotoSet struct {
	Key    string
	Photos []Photo
}

var photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// LoadPhotoSet reads the photos of key from dir/key, ordered by file name.
// A set must contain exactly PhotosPerKey photos for the coordinate table to
// stay valid.
func LoadPhotoSet(dir, key string) (*PhotoSet, error) {
	folder := filepath.Join(dir, key)
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read room photos %s: %w", folder, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !photoExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) != PhotosPerKey {
		return nil, fmt.Errorf("room %q has %d photos, want %d", key, len(names), PhotosPerKey)
	}

	set := &PhotoSet{Key: key, Photos: make([]Photo, 0, len(names))}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(folder, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read room photo %s: %w", name, err)
		}
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("failed to decode room photo %s: %w", name, err)
		}
		set.Photos = append(set.Photos, Photo{Name: name, Data: data, Image: img})
	}
	return set, nil
}
