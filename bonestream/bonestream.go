// Package bonestream groups a bone's rotation and translation track streams
// with the constant/default flags the quantizer and pose sampler both need.
package bonestream

import "github.com/mogaika/animquant/track"

// Stream holds one bone's rotation and translation tracks. A default track
// contributes the identity rotation / zero translation and is never
// quantized. A constant track holds one logical sample stored at its
// variant's highest precision. An animated track has one sample per clip
// frame.
type Stream struct {
	Rotation    *track.Stream
	Translation *track.Stream

	IsRotationDefault     bool
	IsTranslationDefault  bool
	IsRotationConstant    bool
	IsTranslationConstant bool
}

// Set is the per-bone array the quantizer receives and mutates in place.
type Set []Stream

// Duplicate makes an independent, deep copy of every bone stream, used by
// the quantizer to build its working copy.
func (s Set) Duplicate() Set {
	dup := make(Set, len(s))
	for i, bs := range s {
		dup[i] = Stream{
			IsRotationDefault:     bs.IsRotationDefault,
			IsTranslationDefault:  bs.IsTranslationDefault,
			IsRotationConstant:    bs.IsRotationConstant,
			IsTranslationConstant: bs.IsTranslationConstant,
		}
		if bs.Rotation != nil {
			dup[i].Rotation = bs.Rotation.Duplicate()
		}
		if bs.Translation != nil {
			dup[i].Translation = bs.Translation.Duplicate()
		}
	}
	return dup
}

// Swap installs work's streams into s element-by-element, the "whole-element
// swap" the quantizer uses to hand its working copy back to the caller.
func (s Set) Swap(work Set) {
	for i := range s {
		s[i], work[i] = work[i], s[i]
	}
}
