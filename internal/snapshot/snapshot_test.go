package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/orizon-lang/orizon-gc/internal/gcruntime"
	"github.com/orizon-lang/orizon-gc/internal/layout"
)

func TestCaptureAndRoundTrip(t *testing.T) {
	m := gcruntime.New(1 << 20)

	cell, err := layout.NewDescriptor(16, []uintptr{0})
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}

	m.AllocTyped(cell)
	m.AllocTyped(layout.Atomic(8))

	snap := Capture(m)
	if len(snap.Allocated) != 2 {
		t.Fatalf("Capture: len(Allocated) = %d, want 2", len(snap.Allocated))
	}

	if snap.Schema != SchemaVersion {
		t.Fatalf("Capture: Schema = %q, want %q", snap.Schema, SchemaVersion)
	}

	var buf bytes.Buffer
	if err := snap.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if len(got.Allocated) != len(snap.Allocated) {
		t.Fatalf("round trip: len(Allocated) = %d, want %d", len(got.Allocated), len(snap.Allocated))
	}
}

func TestReadJSONRejectsIncompatibleSchema(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"schema": "99.0.0"}`))
	if err == nil {
		t.Fatal("ReadJSON should reject a schema from a future major version")
	}
}

func TestReadJSONRejectsMalformedSchema(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"schema": "not-a-version"}`))
	if err == nil {
		t.Fatal("ReadJSON should reject an unparsable schema string")
	}
}
