package config

import (
	"github.com/pkg/errors"

	"github.com/mogaika/animquant/format"
)

// ResolveRotationFormat maps the YAML-friendly format name onto the type
// the quantizer expects.
func (o Options) ResolveRotationFormat() (format.RotationFormat, error) {
	switch o.RotationFormat {
	case "Quat128":
		return format.Quat128, nil
	case "QuatDropW96":
		return format.QuatDropW96, nil
	case "QuatDropW48":
		return format.QuatDropW48, nil
	case "QuatDropW32":
		return format.QuatDropW32, nil
	case "QuatDropWVariable":
		return format.QuatDropWVariable, nil
	default:
		return 0, errors.Errorf("config: unknown rotation_format %q", o.RotationFormat)
	}
}

// ResolveTranslationFormat maps the YAML-friendly format name onto the type
// the quantizer expects.
func (o Options) ResolveTranslationFormat() (format.VectorFormat, error) {
	switch o.TranslationFormat {
	case "V96":
		return format.V96, nil
	case "V48":
		return format.V48, nil
	case "V32":
		return format.V32, nil
	case "VVariable":
		return format.VVariable, nil
	default:
		return 0, errors.Errorf("config: unknown translation_format %q", o.TranslationFormat)
	}
}
