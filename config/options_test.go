package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/animquant/format"
)

func TestDefaultResolvesToVariableFormats(t *testing.T) {
	opts := Default()

	rot, err := opts.ResolveRotationFormat()
	require.NoError(t, err)
	require.Equal(t, format.QuatDropWVariable, rot)

	trans, err := opts.ResolveTranslationFormat()
	require.NoError(t, err)
	require.Equal(t, format.VVariable, trans)
}

func TestUnmarshalOverridesDefaults(t *testing.T) {
	doc := []byte(`
rotation_format: QuatDropW32
error_threshold: 0.5
segmenting:
  enabled: true
`)
	opts := Default()
	require.NoError(t, yaml.Unmarshal(doc, &opts))

	require.Equal(t, "QuatDropW32", opts.RotationFormat)
	require.Equal(t, 0.5, opts.ErrorThreshold)
	require.True(t, opts.Segmenting.Enabled)
}

func TestResolveUnknownFormatErrors(t *testing.T) {
	opts := Default()
	opts.RotationFormat = "NotAFormat"
	_, err := opts.ResolveRotationFormat()
	require.Error(t, err)
}
