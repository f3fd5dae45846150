// Command animquant-tool drives the quantizer end to end against a
// synthetic fixture clip: load config, build bone streams at full
// precision, quantize, and optionally write a container, a bit-rate
// chart, and a regression record.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animquant/alloc"
	"github.com/mogaika/animquant/bonestream"
	"github.com/mogaika/animquant/clip"
	"github.com/mogaika/animquant/config"
	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/mathutil"
	"github.com/mogaika/animquant/pose"
	"github.com/mogaika/animquant/quantizer"
	"github.com/mogaika/animquant/regression"
	"github.com/mogaika/animquant/report"
	"github.com/mogaika/animquant/serialize"
	"github.com/mogaika/animquant/skeleton"
	"github.com/mogaika/animquant/track"
	"github.com/mogaika/animquant/tracelog"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to a YAML config.Options file; defaults used if empty")
		numBones      = flag.Int("bones", 12, "number of bones in the synthetic test chain")
		numSamples    = flag.Int("samples", 64, "number of samples in the synthetic clip")
		sampleRate    = flag.Float64("rate", 30, "sample rate of the synthetic clip, in hz")
		containerPath = flag.String("out", "", "path to write the quantized container; empty skips writing")
		compression   = flag.String("compression", "zstd", "container compression: none, zstd, or lz4")
		reportPath    = flag.String("report", "", "path to write a bit-rate SVG chart; empty skips writing")
		regressionDB  = flag.String("regression-db", "", "path to a regression SQLite database to record this run in; empty skips recording")
		verbose       = flag.Bool("v", false, "log each quantizer iteration")
	)
	flag.Parse()

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		opts = loaded
	}

	rotationFormat, err := opts.ResolveRotationFormat()
	if err != nil {
		log.Fatalf("resolving rotation format: %v", err)
	}
	translationFormat, err := opts.ResolveTranslationFormat()
	if err != nil {
		log.Fatalf("resolving translation format: %v", err)
	}

	sk, fixture := buildFixture(*numBones, *numSamples, *sampleRate, opts.ErrorThreshold)
	bones := buildBoneStreams(fixture, *numBones, *numSamples, *sampleRate)

	var logger *tracelog.Logger
	if *verbose {
		logger = tracelog.New(os.Stderr)
	}

	arena := alloc.New()
	result := quantizer.QuantizeStreams(arena, bones, rotationFormat, translationFormat, fixture, sk, logger)

	log.Printf("quantized %d bones in %d iterations, achieved error %.6f", sk.NumBones(), result.Iterations, result.AchievedError)
	for b := 0; b < sk.NumBones(); b++ {
		if result.StuckBones[b] {
			log.Printf("bone %d (%s) is stuck", b, fixture.BoneNames[b])
		}
	}

	var containerBytes []byte
	if *containerPath != "" || *regressionDB != "" {
		c, err := resolveCompression(*compression)
		if err != nil {
			log.Fatalf("resolving compression: %v", err)
		}
		containerBytes, err = serialize.Write(bones, c)
		if err != nil {
			log.Fatalf("serializing container: %v", err)
		}
	}

	if *containerPath != "" {
		if err := os.WriteFile(*containerPath, containerBytes, 0644); err != nil {
			log.Fatalf("writing container: %v", err)
		}
		log.Printf("wrote %d bytes to %s", len(containerBytes), *containerPath)
	}

	if *regressionDB != "" {
		store, err := regression.Open(*regressionDB)
		if err != nil {
			log.Fatalf("opening regression store: %v", err)
		}
		defer store.Close()

		run, err := store.Record(result.AchievedError, opts.ErrorThreshold, opts.RegressionErrorThreshold, int64(len(containerBytes)))
		if err != nil {
			log.Fatalf("recording regression run: %v", err)
		}
		log.Printf("recorded regression run %s, passed=%v", run.ClipID, run.Passed)
	}

	if *reportPath != "" {
		svg, err := report.BitRateChart(result, fixture.BoneNames)
		if err != nil {
			log.Fatalf("rendering report: %v", err)
		}
		if err := os.WriteFile(*reportPath, svg, 0644); err != nil {
			log.Fatalf("writing report: %v", err)
		}
		log.Printf("wrote bit-rate chart to %s", *reportPath)
	}
}

func resolveCompression(name string) (format.CompressionType, error) {
	switch name {
	case "none":
		return format.CompressionNone, nil
	case "zstd":
		return format.CompressionZstd, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		log.Printf("unknown compression %q, falling back to none", name)
		return format.CompressionNone, nil
	}
}

// buildFixture constructs a simple bone chain, each child rotating around
// its own axis at a distinct rate over the clip, so the quantizer has
// real per-bone error to chase.
func buildFixture(numBones, numSamples int, sampleRate, errorThreshold float64) (*skeleton.Skeleton, *clip.Fixture) {
	rigid := make([]skeleton.RigidBone, numBones)
	fixtureBones := make([]clip.FixtureBone, numBones)
	gen := &clip.NameGenerator{}

	for b := 0; b < numBones; b++ {
		parent := skeleton.InvalidBoneIndex
		if b > 0 {
			parent = b - 1
		}
		rigid[b] = skeleton.RigidBone{ParentIndex: parent, VertexDistance: 1}

		frames := make([]pose.Transform, numSamples)
		for s := 0; s < numSamples; s++ {
			phase := float32(2*math.Pi) * float32(s) / float32(numSamples) * float32(b+1)
			euler := mgl32.Vec3{phase * 0.3, phase, phase * 0.15}
			frames[s] = pose.Transform{
				Rotation:    mathutil.EulerToQuat(euler),
				Translation: mgl32.Vec3{float32(b), 0, 0},
				Scale:       mgl32.Vec3{1, 1, 1},
			}
		}
		fixtureBones[b] = clip.FixtureBone{Frames: frames}
	}

	sk := skeleton.New(rigid)
	fixture := clip.NewFixture(sampleRate, errorThreshold, fixtureBones, gen)
	return sk, fixture
}

// buildBoneStreams samples fixture at full precision (Quat128, V96) into a
// fresh bonestream.Set — the "original" streams QuantizeStreams always
// re-reads from when it bumps a track's bit rate.
func buildBoneStreams(fixture *clip.Fixture, numBones, numSamples int, sampleRate float64) bonestream.Set {
	rot := make([]*track.Stream, numBones)
	trans := make([]*track.Stream, numBones)
	for b := 0; b < numBones; b++ {
		rot[b] = track.NewRotationStream(numSamples, sampleRate, format.Quat128, format.InvalidBitRate)
		trans[b] = track.NewTranslationStream(numSamples, sampleRate, format.V96, format.InvalidBitRate)
	}

	frame := make([]pose.Transform, numBones)
	for s := 0; s < numSamples; s++ {
		t := float64(s) / sampleRate
		fixture.SamplePose(t, frame)
		for b := 0; b < numBones; b++ {
			rot[b].SetQuat(s, frame[b].Rotation)
			trans[b].SetVector(s, frame[b].Translation)
		}
	}

	bones := make(bonestream.Set, numBones)
	for b := 0; b < numBones; b++ {
		bones[b] = bonestream.Stream{Rotation: rot[b], Translation: trans[b]}
	}
	return bones
}
