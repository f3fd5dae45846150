// Package alloc is the injected allocator abstraction the quantizer takes
// as its first argument. It plays the role of the ACL allocator's
// allocate_array<T>/deallocate_array<T> pair, but realized with sync.Pool
// arenas bucketed by capacity rather than manual bookkeeping — the quantizer
// still "returns" everything it borrows, it just hands the slice back to a
// pool instead of freeing raw memory.
package alloc

import (
	"math/bits"
	"sync"

	"github.com/mogaika/animquant/pose"
	"github.com/mogaika/animquant/skeleton"
)

// Arena hands out and reclaims the scratch slices the quantizer needs per
// run: a handful of num_bones-sized scratch arrays and one bitset (the
// bone-stream duplicate comes from bonestream.Set.Duplicate, not from the
// arena). Each pooled element type gets its own set of
// capacity-bucketed pools so repeated runs reuse backing arrays instead of
// pressuring the GC.
type Arena struct {
	float32Pools         sync.Map // bucket size -> *sync.Pool of []float32
	transformPools       sync.Map // bucket size -> *sync.Pool of []pose.Transform
	objectTransformPools sync.Map // bucket size -> *sync.Pool of []skeleton.ObjectTransform
}

// New returns a fresh Arena. A single Arena may be reused across many
// quantization runs; it is not safe for concurrent use by multiple runs at
// once, matching the quantizer's own non-reentrancy on one bone stream set.
func New() *Arena {
	return &Arena{}
}

func bucketFor(n int) int {
	if n <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func poolFor(m *sync.Map, bucket int, newFn func() interface{}) *sync.Pool {
	if p, ok := m.Load(bucket); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{New: newFn}
	actual, _ := m.LoadOrStore(bucket, p)
	return actual.(*sync.Pool)
}

// AllocateFloat32 returns a zeroed slice of length n.
func (a *Arena) AllocateFloat32(n int) []float32 {
	bucket := bucketFor(n)
	p := poolFor(&a.float32Pools, bucket, func() interface{} {
		return make([]float32, bucket)
	})
	buf := p.Get().([]float32)
	for i := range buf[:n] {
		buf[i] = 0
	}
	return buf[:n]
}

// ReleaseFloat32 returns s to the pool matching its capacity.
func (a *Arena) ReleaseFloat32(s []float32) {
	if s == nil {
		return
	}
	bucket := bucketFor(cap(s))
	p := poolFor(&a.float32Pools, bucket, func() interface{} {
		return make([]float32, bucket)
	})
	p.Put(s[:cap(s)])
}

// AllocateTransform returns a zeroed slice of length n, used for the
// quantizer's per-bone local-pose scratch (raw and lossy poses at the
// current sample time, the bad-sample snapshot, and the attribution
// swap-and-restore buffer).
func (a *Arena) AllocateTransform(n int) []pose.Transform {
	bucket := bucketFor(n)
	p := poolFor(&a.transformPools, bucket, func() interface{} {
		return make([]pose.Transform, bucket)
	})
	buf := p.Get().([]pose.Transform)
	for i := range buf[:n] {
		buf[i] = pose.Transform{}
	}
	return buf[:n]
}

// ReleaseTransform returns s to the pool matching its capacity.
func (a *Arena) ReleaseTransform(s []pose.Transform) {
	if s == nil {
		return
	}
	bucket := bucketFor(cap(s))
	p := poolFor(&a.transformPools, bucket, func() interface{} {
		return make([]pose.Transform, bucket)
	})
	p.Put(s[:cap(s)])
}

// AllocateObjectTransform returns a zeroed slice of length n, used for the
// object-space scratch skeleton.ComputeObjectSpace writes into: the
// quantizer's own raw/lossy object poses, and the two buffers
// skeleton.CalculateErrorContribution needs to isolate a single ancestor's
// contribution.
func (a *Arena) AllocateObjectTransform(n int) []skeleton.ObjectTransform {
	bucket := bucketFor(n)
	p := poolFor(&a.objectTransformPools, bucket, func() interface{} {
		return make([]skeleton.ObjectTransform, bucket)
	})
	buf := p.Get().([]skeleton.ObjectTransform)
	for i := range buf[:n] {
		buf[i] = skeleton.ObjectTransform{}
	}
	return buf[:n]
}

// ReleaseObjectTransform returns s to the pool matching its capacity.
func (a *Arena) ReleaseObjectTransform(s []skeleton.ObjectTransform) {
	if s == nil {
		return
	}
	bucket := bucketFor(cap(s))
	p := poolFor(&a.objectTransformPools, bucket, func() interface{} {
		return make([]skeleton.ObjectTransform, bucket)
	})
	p.Put(s[:cap(s)])
}
