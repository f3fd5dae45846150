package format

// BitRate indexes a fixed, monotonically increasing schedule of per-channel
// bit counts used by the variable N/N/N packers. It is only meaningful for
// variable rotation/vector formats; fixed formats ignore it.
type BitRate int

const (
	// LowestBitRate is where every variable track starts.
	LowestBitRate BitRate = 0
	// HighestBitRate is the ceiling the search loop bumps toward; a track
	// at this rate is no longer eligible for further precision.
	HighestBitRate BitRate = 18

	// InvalidBitRate marks a track whose format isn't variable at all.
	InvalidBitRate BitRate = -1
)

// NumBitsAtBitRate returns the number of bits packed per channel at rate.
// The schedule is linear: rate 0 packs 1 bit per channel, rate 18 packs 19,
// matching the N ∈ [1, 19] range a 64-bit 3-channel slot can hold.
func NumBitsAtBitRate(rate BitRate) int {
	return int(rate) + 1
}

// IsValid reports whether rate falls within [LowestBitRate, HighestBitRate].
func (r BitRate) IsValid() bool {
	return r >= LowestBitRate && r <= HighestBitRate
}

// Eligible reports whether a track at this bit rate can still be bumped by
// the search loop.
func (r BitRate) Eligible() bool {
	return r.IsValid() && r < HighestBitRate
}
