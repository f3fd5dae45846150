// Package config carries every knob the quantization pipeline's
// collaborators read before the core runs. The quantizer itself never
// reads an Options value directly — only through the narrow clip.Clip and
// skeleton.Skeleton contracts — preserving "no hidden globals": the core
// holds no process-wide state of its own.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RangeReduction controls whether an encoder precomputes per-track
// min/extent to remap [-1, 1] channel domains before packing.
type RangeReduction struct {
	Clip    bool `yaml:"clip"`
	Segment bool `yaml:"segment"`
}

// Segmenting controls whether the variable-rate search also runs
// per-segment; core behavior is identical either way, only the inputs
// differ.
type Segmenting struct {
	Enabled bool `yaml:"enabled"`
}

// Options is the YAML-decodable configuration object enumerated in the
// spec's external-interfaces section.
type Options struct {
	AlgorithmName string `yaml:"algorithm_name"`

	RotationFormat    string `yaml:"rotation_format"`
	TranslationFormat string `yaml:"translation_format"`
	ScaleFormat       string `yaml:"scale_format"`

	RangeReduction RangeReduction `yaml:"range_reduction"`
	Segmenting     Segmenting     `yaml:"segmenting"`

	ConstantRotationThresholdAngle float64 `yaml:"constant_rotation_threshold_angle"`
	ConstantTranslationThreshold  float64 `yaml:"constant_translation_threshold"`
	ConstantScaleThreshold        float64 `yaml:"constant_scale_threshold"`

	ErrorThreshold           float64 `yaml:"error_threshold"`
	RegressionErrorThreshold float64 `yaml:"regression_error_threshold"`
}

// Default returns the options UniformlySampled ships with: variable
// rotation, translation and scale formats, and a 0.01cm error threshold
// with a matching 0.01cm regression threshold.
func Default() Options {
	return Options{
		AlgorithmName:                  "UniformlySampled",
		RotationFormat:                 "QuatDropWVariable",
		TranslationFormat:              "VVariable",
		ScaleFormat:                    "VVariable",
		ConstantRotationThresholdAngle: 0.00284,
		ConstantTranslationThreshold:   0.001,
		ConstantScaleThreshold:         0.00001,
		ErrorThreshold:                 0.01,
		RegressionErrorThreshold:       0.01,
	}
}

// Load reads and decodes a YAML options file.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "config.Load: reading %s", path)
	}
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, errors.Wrapf(err, "config.Load: decoding %s", path)
	}
	return opts, nil
}
