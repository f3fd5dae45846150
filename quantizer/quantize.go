// Package quantizer is the orchestrator: it starts every variable track at
// the lowest bit rate, then repeatedly finds the first sample time and the
// first (root-most) bone whose reconstructed pose exceeds the error
// threshold, attributes that drift to an
// ancestor's rotation or translation track, and bumps that track's
// precision — until the clip-wide error is below threshold or every
// offending bone is stuck.
package quantizer

import (
	"math"

	"github.com/mogaika/animquant/alloc"
	"github.com/mogaika/animquant/bonestream"
	"github.com/mogaika/animquant/clip"
	"github.com/mogaika/animquant/ensure"
	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/pose"
	"github.com/mogaika/animquant/skeleton"
	"github.com/mogaika/animquant/track"
	"github.com/mogaika/animquant/tracelog"
)

// Result is returned alongside the mutated bone stream set, carrying the
// query surface the "caller may query achieved error" clause of the error
// handling design promises.
type Result struct {
	AchievedError             float64
	StuckBones                []bool
	Iterations                int
	FinalRotationBitRates     []format.BitRate
	FinalTranslationBitRates  []format.BitRate
}

// QuantizeStreams is the core entry point. bones holds each bone's stream
// at full, un-quantized precision (Quat128 rotation, V96 translation) on
// entry — the "original" samples every re-quantization step re-reads from
// — and on return holds the quantized result, installed by whole-element
// swap. arena supplies every scratch array the search needs; all of them
// are released before return, including on early exit. c is sampled for
// ground-truth poses, never bones itself, so repeated re-quantization never
// compounds loss. log may be nil.
func QuantizeStreams(
	arena *alloc.Arena,
	bones bonestream.Set,
	rotationFormat format.RotationFormat,
	translationFormat format.VectorFormat,
	c clip.Clip,
	sk *skeleton.Skeleton,
	log *tracelog.Logger,
) Result {
	numBones := len(bones)
	ensure.That(numBones == sk.NumBones(), "QuantizeStreams: %d bones, skeleton has %d", numBones, sk.NumBones())
	ensure.That(c.ErrorThreshold() > 0, "QuantizeStreams: error_threshold must be positive")

	work := bones.Duplicate()
	convertToTargetFormats(work, bones, rotationFormat, translationFormat)

	stuck := arena.AllocateBitset(numBones)
	defer arena.ReleaseBitset(stuck)

	errPerBone := arena.AllocateFloat32(numBones)
	defer arena.ReleaseFloat32(errPerBone)

	rawPose := arena.AllocateTransform(numBones)
	defer arena.ReleaseTransform(rawPose)
	workPose := arena.AllocateTransform(numBones)
	defer arena.ReleaseTransform(workPose)
	rawObj := arena.AllocateObjectTransform(numBones)
	defer arena.ReleaseObjectTransform(rawObj)
	workObj := arena.AllocateObjectTransform(numBones)
	defer arena.ReleaseObjectTransform(workObj)
	badRawPose := arena.AllocateTransform(numBones)
	defer arena.ReleaseTransform(badRawPose)
	badWorkPose := arena.AllocateTransform(numBones)
	defer arena.ReleaseTransform(badWorkPose)
	attribScratch := arena.AllocateTransform(numBones)
	defer arena.ReleaseTransform(attribScratch)
	contribRawObj := arena.AllocateObjectTransform(numBones)
	defer arena.ReleaseObjectTransform(contribRawObj)
	contribMixedObj := arena.AllocateObjectTransform(numBones)
	defer arena.ReleaseObjectTransform(contribMixedObj)

	numSamples := c.NumSamples()
	sampleRate := c.SampleRate()
	duration := c.Duration()

	achievedError := 0.0
	maxIterations := countEligibleTracks(work) * (int(format.HighestBitRate) - int(format.LowestBitRate))

	iter := 0
	for {
		// worst_clip_error resets to error_threshold at the top of every
		// pass: a pass only needs to find a bone worse than the threshold,
		// not worse than the previous pass's worst offender.
		worstClipError := c.ErrorThreshold()
		badBone := -1
		badErr := 0.0
		passWorst := 0.0

		for s := 0; s < numSamples; s++ {
			t := math.Min(float64(s)/sampleRate, duration)
			c.SamplePose(t, rawPose)
			pose.Sample(work, t, workPose)
			sk.CalculateErrorPerBone(rawPose, workPose, rawObj, workObj, errPerBone)

			found := -1
			for b := 0; b < numBones; b++ {
				passWorst = math.Max(passWorst, float64(errPerBone[b]))
				if stuck.Test(b) {
					continue
				}
				if float64(errPerBone[b]) > worstClipError {
					found = b
					break
				}
			}
			if found >= 0 {
				badBone = found
				badErr = float64(errPerBone[found])
				worstClipError = badErr
				copy(badRawPose, rawPose)
				copy(badWorkPose, workPose)
				break // scan_whole_clip_for_bad_bone = false: stop at the first hit.
			}
		}

		if badBone == -1 {
			// This pass scanned every sample time, so passWorst is the
			// clip-wide worst error of the final streams (stuck bones included).
			achievedError = passWorst
			break
		}
		achievedError = badErr
		log.Printf("iteration %d: bad bone %d error %.6f", iter, badBone, badErr)

		chosenBone, chosenIsRotation, chosenErr := selectAncestorTrack(sk, work, badRawPose, badWorkPose, badBone, attribScratch, contribRawObj, contribMixedObj)
		if chosenBone < 0 {
			stuck.Set(badBone)
			log.Printf("iteration %d: bone %d stuck, no eligible ancestor track", iter, badBone)
			iter++
			ensure.That(iter <= maxIterations+numBones, "QuantizeStreams: exceeded iteration bound, likely a stuck-bone bookkeeping bug")
			continue
		}

		bumpTrack(work, bones, chosenBone, chosenIsRotation, rotationFormat, translationFormat)
		log.Printf("iteration %d: bumped bone %d %s track (contribution %.6f)", iter, chosenBone, trackLabel(chosenIsRotation), chosenErr)

		iter++
		ensure.That(iter <= maxIterations+numBones, "QuantizeStreams: exceeded iteration bound, likely a stuck-track bookkeeping bug")
	}

	bones.Swap(work)

	result := Result{
		AchievedError:            achievedError,
		StuckBones:               make([]bool, numBones),
		Iterations:               iter,
		FinalRotationBitRates:    make([]format.BitRate, numBones),
		FinalTranslationBitRates: make([]format.BitRate, numBones),
	}
	for b := 0; b < numBones; b++ {
		result.StuckBones[b] = stuck.Test(b)
		result.FinalRotationBitRates[b] = bitRateOf(bones[b].Rotation)
		result.FinalTranslationBitRates[b] = bitRateOf(bones[b].Translation)
	}
	return result
}

func trackLabel(isRotation bool) string {
	if isRotation {
		return "rotation"
	}
	return "translation"
}

func bitRateOf(s *track.Stream) format.BitRate {
	if s == nil || !s.IsVariable() {
		return format.InvalidBitRate
	}
	return s.BitRate()
}

// convertToTargetFormats builds work's initial streams from raw, converting
// every non-default track to its target format: constant tracks to the
// variant's highest fixed precision, variable animated tracks to
// LowestBitRate, and fixed-format tracks directly (henceforth immutable).
func convertToTargetFormats(work, raw bonestream.Set, rotationFormat format.RotationFormat, translationFormat format.VectorFormat) {
	for i := range work {
		bs := &work[i]
		rs := raw[i]

		if !bs.IsRotationDefault {
			switch {
			case bs.IsRotationConstant:
				bs.Rotation = requantizeRotation(rs.Rotation, rotationFormat.HighestPrecision(), format.InvalidBitRate)
			case rotationFormat.IsVariable():
				bs.Rotation = requantizeRotation(rs.Rotation, rotationFormat, format.LowestBitRate)
			default:
				bs.Rotation = requantizeRotation(rs.Rotation, rotationFormat, format.InvalidBitRate)
			}
		}

		if !bs.IsTranslationDefault {
			switch {
			case bs.IsTranslationConstant:
				bs.Translation = requantizeVector(rs.Translation, translationFormat.HighestPrecision(), format.InvalidBitRate)
			case translationFormat.IsVariable():
				bs.Translation = requantizeVector(rs.Translation, translationFormat, format.LowestBitRate)
			default:
				bs.Translation = requantizeVector(rs.Translation, translationFormat, format.InvalidBitRate)
			}
		}
	}
}

func requantizeRotation(raw *track.Stream, f format.RotationFormat, rate format.BitRate) *track.Stream {
	count := raw.Count()
	out := track.NewRotationStream(count, raw.SampleRate(), f, rate)
	for i := 0; i < count; i++ {
		q := raw.SampleQuat(i)
		// Drop-W formats reconstruct a non-negative W, so pick the W >= 0
		// hemisphere (the same rotation) before packing.
		if f.Variant() == format.VariantQuatDropW && q.W < 0 {
			q = q.Scale(-1)
		}
		out.SetQuat(i, q)
	}
	return out
}

func requantizeVector(raw *track.Stream, f format.VectorFormat, rate format.BitRate) *track.Stream {
	count := raw.Count()
	out := track.NewTranslationStream(count, raw.SampleRate(), f, rate)
	for i := 0; i < count; i++ {
		out.SetVector(i, raw.SampleVector(i))
	}
	return out
}

// selectAncestorTrack walks from badBone toward the root, picking the
// eligible track (variable format, bit rate below HighestBitRate) with the
// largest attributed error. Ties favor the first-seen ancestor — the
// child-proximal one, since the walk starts at badBone — matching the
// behavior the original implementation actually exhibits.
func selectAncestorTrack(sk *skeleton.Skeleton, work bonestream.Set, rawPose, workPose []pose.Transform, badBone int, scratch []pose.Transform, rawObj, mixedObj []skeleton.ObjectTransform) (chosenBone int, chosenIsRotation bool, chosenErr float64) {
	chosenBone = -1
	chosenErr = -1

	for ancestor := badBone; ancestor != skeleton.InvalidBoneIndex; ancestor = sk.ParentIndex(ancestor) {
		bs := work[ancestor]
		rotEligible := !bs.IsRotationDefault && !bs.IsRotationConstant && bs.Rotation.IsVariable() && bs.Rotation.BitRate().Eligible()
		transEligible := !bs.IsTranslationDefault && !bs.IsTranslationConstant && bs.Translation.IsVariable() && bs.Translation.BitRate().Eligible()
		if !rotEligible && !transEligible {
			continue
		}

		contrib := sk.CalculateErrorContribution(rawPose, workPose, ancestor, badBone, scratch, rawObj, mixedObj)
		if rotEligible && contrib.RotationError > chosenErr {
			chosenErr = contrib.RotationError
			chosenBone = ancestor
			chosenIsRotation = true
		}
		if transEligible && contrib.TranslationError > chosenErr {
			chosenErr = contrib.TranslationError
			chosenBone = ancestor
			chosenIsRotation = false
		}
	}
	return chosenBone, chosenIsRotation, chosenErr
}

// bumpTrack re-quantizes the chosen track from the original (full
// precision) samples in raw at bit_rate+1, never from work's current
// (already lossy) samples — re-reading the original every time is what
// keeps successive bumps from compounding quantization error.
func bumpTrack(work, raw bonestream.Set, bone int, isRotation bool, rotationFormat format.RotationFormat, translationFormat format.VectorFormat) {
	if isRotation {
		next := work[bone].Rotation.BitRate() + 1
		ensure.That(next.IsValid(), "bumpTrack: rotation bit rate overflowed HighestBitRate on bone %d", bone)
		work[bone].Rotation = requantizeRotation(raw[bone].Rotation, rotationFormat, next)
		return
	}
	next := work[bone].Translation.BitRate() + 1
	ensure.That(next.IsValid(), "bumpTrack: translation bit rate overflowed HighestBitRate on bone %d", bone)
	work[bone].Translation = requantizeVector(raw[bone].Translation, translationFormat, next)
}

func countEligibleTracks(work bonestream.Set) int {
	n := 0
	for _, bs := range work {
		if !bs.IsRotationDefault && !bs.IsRotationConstant && bs.Rotation.IsVariable() {
			n++
		}
		if !bs.IsTranslationDefault && !bs.IsTranslationConstant && bs.Translation.IsVariable() {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}
