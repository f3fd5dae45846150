package report

// ColorFloat is an RGBA color in [0, 1] per channel, the form gonum/plot's
// draw.Color wants.
type ColorFloat [4]float32

// RGBA implements color.Color.
func (c ColorFloat) RGBA() (r, g, b, a uint32) {
	const maxChannel = float32(256*256 - 1)
	r = uint32(c[0] * maxChannel)
	g = uint32(c[1] * maxChannel)
	b = uint32(c[2] * maxChannel)
	a = uint32(c[3] * maxChannel)
	return
}

// bitRateColor maps a fraction of the way from LowestBitRate to
// HighestBitRate, clamped to [0, 1], onto a red (low precision) to green
// (high precision) gradient.
func bitRateColor(fraction float32) ColorFloat {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	return ColorFloat{1 - fraction, fraction, 0.15, 1}
}
