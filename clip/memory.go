package clip

import (
	"github.com/mogaika/animquant/ensure"
	"github.com/mogaika/animquant/pose"
)

// Memory is an in-memory Clip backed by a dense per-bone array of raw,
// unpacked transforms — one slice per bone, one entry per frame. It exists
// to exercise the quantizer end to end in tests and the CLI; it does not
// read or write any particular game engine's animation file format.
type Memory struct {
	sampleRate     float64
	errorThreshold float64
	bones          [][]pose.Transform
}

// NewMemory builds a Memory clip from per-bone raw transform arrays. Every
// bone's array must have the same length.
func NewMemory(sampleRate, errorThreshold float64, bones [][]pose.Transform) *Memory {
	ensure.That(len(bones) > 0, "clip.NewMemory: at least one bone required")
	n := len(bones[0])
	for i, b := range bones {
		ensure.That(len(b) == n, "clip.NewMemory: bone %d has %d samples, want %d", i, len(b), n)
	}
	return &Memory{sampleRate: sampleRate, errorThreshold: errorThreshold, bones: bones}
}

func (m *Memory) NumSamples() int { return len(m.bones[0]) }

func (m *Memory) Duration() float64 {
	n := m.NumSamples()
	if n <= 1 {
		return 0
	}
	return float64(n-1) / m.sampleRate
}

func (m *Memory) SampleRate() float64 { return m.sampleRate }

func (m *Memory) ErrorThreshold() float64 { return m.errorThreshold }

// SamplePose fills out[i] with bone i's raw transform at time t, linearly
// interpolating between the two bracketing recorded frames.
func (m *Memory) SamplePose(t float64, out []pose.Transform) {
	ensure.That(len(out) == len(m.bones), "clip.Memory.SamplePose: out has %d bones, want %d", len(out), len(m.bones))

	for i, frames := range m.bones {
		lo, hi, frac := pose.BracketIndices(len(frames), m.sampleRate, t)
		out[i] = pose.LerpTransform(frames[lo], frames[hi], frac)
	}
}
