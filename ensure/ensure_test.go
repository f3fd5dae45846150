package ensure

import (
	"fmt"
	"testing"
)

func TestThatPassesSilently(t *testing.T) {
	old := Hook
	defer func() { Hook = old }()

	fired := false
	Hook = func(format string, args ...interface{}) { fired = true }

	That(true, "should not fire")
	if fired {
		t.Fatalf("Hook fired for a satisfied condition")
	}
}

func TestThatFiresHook(t *testing.T) {
	old := Hook
	defer func() { Hook = old }()

	var got string
	Hook = func(format string, args ...interface{}) { got = fmt.Sprintf(format, args...) }

	That(false, "bit rate %d out of range", 42)
	if got != "bit rate 42 out of range" {
		t.Fatalf("unexpected message: %q", got)
	}
}
