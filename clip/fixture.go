package clip

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"

	"github.com/mogaika/animquant/pose"
)

// NameGenerator hands out unique, deterministic bone names for synthetic
// test fixtures, so a table-driven test failure reads "left_arm_socket"
// rather than "bone[7]".
type NameGenerator map[string]struct{}

// BoneName returns a fresh, never-before-returned silly name.
func (g *NameGenerator) BoneName() string {
	if *g == nil {
		*g = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		if _, exists := (*g)[name]; !exists {
			(*g)[name] = struct{}{}
			return name
		}
	}
}

// FixtureBone describes one synthetic bone for NewFixture.
type FixtureBone struct {
	Name   string
	Frames []pose.Transform
}

// Fixture is a named synthetic clip, useful when a test failure needs to
// name a bone rather than index it.
type Fixture struct {
	*Memory
	BoneNames []string
}

// NewFixture builds a Memory clip from named bones, generating names via
// gen for any bone whose Name is left blank.
func NewFixture(sampleRate, errorThreshold float64, bones []FixtureBone, gen *NameGenerator) *Fixture {
	frames := make([][]pose.Transform, len(bones))
	names := make([]string, len(bones))
	for i, b := range bones {
		frames[i] = b.Frames
		if b.Name != "" {
			names[i] = b.Name
		} else {
			names[i] = gen.BoneName()
		}
	}
	return &Fixture{
		Memory:    NewMemory(sampleRate, errorThreshold, frames),
		BoneNames: names,
	}
}

// ConstantPoseFrames repeats transform count times, a convenience for
// building a bone that never moves.
func ConstantPoseFrames(transform pose.Transform, count int) []pose.Transform {
	frames := make([]pose.Transform, count)
	for i := range frames {
		frames[i] = transform
	}
	return frames
}
