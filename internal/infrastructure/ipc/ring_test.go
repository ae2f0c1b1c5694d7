package ipc

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestRingPublishWritesSlotAndAdvancesSeq(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.shm")
	ring, err := OpenRing(path, 4, 262)
	if err != nil {
		t.Fatalf("OpenRing: %v", err)
	}
	defer ring.Close()

	payload := bytes.Repeat([]byte{0xAB}, 192)
	if err := ring.Publish(payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if !bytes.Equal(raw[0:8], ringMagic[:]) {
		t.Fatalf("magic mismatch: % x", raw[0:8])
	}
	seq := binary.LittleEndian.Uint64(raw[24:32])
	if seq != 1 {
		t.Fatalf("write seq = %d, want 1", seq)
	}

	slot0 := raw[headerSize : headerSize+192]
	if !bytes.Equal(slot0, payload) {
		t.Fatalf("slot 0 payload mismatch")
	}
}

func TestRingPublishRejectsOversizedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.shm")
	ring, err := OpenRing(path, 4, 262)
	if err != nil {
		t.Fatalf("OpenRing: %v", err)
	}
	defer ring.Close()

	if err := ring.Publish(make([]byte, 263)); err == nil {
		t.Fatal("expected error for payload exceeding slot size")
	}
}

func TestRingWrapsAroundSlotCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.shm")
	ring, err := OpenRing(path, 2, 16)
	if err != nil {
		t.Fatalf("OpenRing: %v", err)
	}
	defer ring.Close()

	for i := 0; i < 5; i++ {
		if err := ring.Publish([]byte{byte(i)}); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	seq := binary.LittleEndian.Uint64(raw[24:32])
	if seq != 5 {
		t.Fatalf("write seq = %d, want 5", seq)
	}
	// Slot (5-1)%2 == 0 holds the last write's payload (value 4).
	if raw[headerSize] != 4 {
		t.Fatalf("slot 0 = %d, want 4", raw[headerSize])
	}
}
