// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"fmt"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// QualityPreset bundles the image-compression knobs applied during
// office-to-PDF conversion. Submittal drawings and fan curves are
// raster-heavy; the preset decides how much of that detail survives.
type QualityPreset struct {
	// ImageQuality is the JPEG quality percentage (1-100) used when
	// images are recompressed lossily.
	ImageQuality int
	// MaxImageDPI caps the resolution images are downsampled to.
	MaxImageDPI int
	// Lossless disables JPEG recompression entirely.
	Lossless bool
}

// presets maps each quality mode to its conversion settings. The high
// and maximum modes keep images lossless so dimension callouts on
// drawings stay legible after print.
var presets = map[types.QualityMode]QualityPreset{
	types.QualityFast:     {ImageQuality: 80, MaxImageDPI: 150},
	types.QualityBalanced: {ImageQuality: 90, MaxImageDPI: 300},
	types.QualityHigh:     {ImageQuality: 100, MaxImageDPI: 600, Lossless: true},
	types.QualityMaximum:  {ImageQuality: 100, MaxImageDPI: 1200, Lossless: true},
}

// PresetFor returns the conversion settings for a quality mode.
func PresetFor(mode types.QualityMode) (QualityPreset, error) {
	p, ok := presets[mode]
	if !ok {
		return QualityPreset{}, fmt.Errorf("unknown quality mode %q", mode)
	}
	return p, nil
}
