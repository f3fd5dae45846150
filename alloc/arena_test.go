package alloc

import (
	"testing"

	"github.com/mogaika/animquant/pose"
	"github.com/mogaika/animquant/skeleton"
)

func TestAllocateFloat32IsZeroed(t *testing.T) {
	a := New()
	buf := a.AllocateFloat32(5)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("index %d not zeroed: %v", i, v)
		}
	}
	buf[0] = 42
	a.ReleaseFloat32(buf)

	reused := a.AllocateFloat32(5)
	if reused[0] != 0 {
		t.Fatalf("reused buffer not re-zeroed")
	}
}

func TestAllocateTransformIsZeroedAndReused(t *testing.T) {
	a := New()
	buf := a.AllocateTransform(5)
	for i, tr := range buf {
		if tr != (pose.Transform{}) {
			t.Fatalf("index %d not zeroed: %v", i, tr)
		}
	}
	buf[0].Translation[0] = 42
	a.ReleaseTransform(buf)

	reused := a.AllocateTransform(5)
	if reused[0].Translation[0] != 0 {
		t.Fatalf("reused buffer not re-zeroed")
	}
}

func TestAllocateObjectTransformIsZeroedAndReused(t *testing.T) {
	a := New()
	buf := a.AllocateObjectTransform(5)
	for i, tr := range buf {
		if tr != (skeleton.ObjectTransform{}) {
			t.Fatalf("index %d not zeroed: %v", i, tr)
		}
	}
	buf[0].Translation[0] = 42
	a.ReleaseObjectTransform(buf)

	reused := a.AllocateObjectTransform(5)
	if reused[0].Translation[0] != 0 {
		t.Fatalf("reused buffer not re-zeroed")
	}
}

func TestBitsetSetTestClear(t *testing.T) {
	a := New()
	bs := a.AllocateBitset(130)
	if bs.Test(65) {
		t.Fatalf("bit 65 set before Set")
	}
	bs.Set(65)
	if !bs.Test(65) {
		t.Fatalf("bit 65 not set after Set")
	}
	bs.Clear(65)
	if bs.Test(65) {
		t.Fatalf("bit 65 still set after Clear")
	}
	if bs.Len() != 130 {
		t.Fatalf("Len = %d, want 130", bs.Len())
	}
}
