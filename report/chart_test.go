package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/quantizer"
)

func TestBitRateChartProducesSVG(t *testing.T) {
	result := quantizer.Result{
		AchievedError: 0.004,
		Iterations:    12,
		FinalRotationBitRates: []format.BitRate{
			format.BitRate(3), format.InvalidBitRate,
		},
		FinalTranslationBitRates: []format.BitRate{
			format.InvalidBitRate, format.BitRate(7),
		},
	}

	svg, err := BitRateChart(result, []string{"root", "spine_01"})
	require.NoError(t, err)
	require.Contains(t, string(svg), "<svg")
}

func TestBitRateChartRejectsMismatchedNames(t *testing.T) {
	result := quantizer.Result{
		FinalRotationBitRates:    []format.BitRate{format.BitRate(3)},
		FinalTranslationBitRates: []format.BitRate{format.InvalidBitRate},
	}
	_, err := BitRateChart(result, nil)
	require.Error(t, err)
}

func TestBitRateColorClampsFraction(t *testing.T) {
	require.Equal(t, bitRateColor(0), bitRateColor(-1))
	require.Equal(t, bitRateColor(1), bitRateColor(2))
}
