// Package clip defines the Clip contract the quantizer samples for "raw"
// reference poses, plus a small in-memory reference implementation used by
// tests and the command-line tool. It is not a general-purpose animation
// file importer.
package clip

import "github.com/mogaika/animquant/pose"

// Clip is the read-only collaborator the quantizer's search loop samples
// for ground-truth poses — deliberately not the (possibly normalized) bone
// stream set it is quantizing, so re-quantization never compounds loss.
type Clip interface {
	Duration() float64
	SampleRate() float64
	ErrorThreshold() float64
	NumSamples() int
	SamplePose(t float64, out []pose.Transform)
}
