package catalog

import (
	_ "embed"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"
)

const (
	imageDir        = "images/products"
	defaultImageExt = ".jpg"
)

//go:embed data/images.yaml
var defaultImageManifest []byte

// ImageManifest maps a product slug to the file extension of its image.
type ImageManifest map[string]string

// LoadImageManifest decodes a yaml document of "slug: .ext" pairs.
func LoadImageManifest(data []byte) (ImageManifest, error) {
	m := ImageManifest{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode image manifest: %w", err)
	}
	return m, nil
}

// DefaultImageManifest returns the manifest shipped with the storefront images.
func DefaultImageManifest() ImageManifest {
	m, err := LoadImageManifest(defaultImageManifest)
	if err != nil {
		return ImageManifest{}
	}
	return m
}

// Resolve returns the image path for slug, falling back to a .jpg file.
func (m ImageManifest) Resolve(slug string) string {
	ext, ok := m[slug]
	if !ok || ext == "" {
		ext = defaultImageExt
	}
	return path.Join(imageDir, slug+ext)
}
