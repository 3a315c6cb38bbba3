package storage

import (
	"testing"
	"time"
)

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2024, 2, 16, 12, 30, 5, 250_000_000, time.FixedZone("EET", 2*60*60))

	key := SnapshotKey(at)
	if key != "snapshots/20240216-103005.250.json" {
		t.Errorf("unexpected key %q", key)
	}
	if !IsSnapshotKey(key) {
		t.Errorf("generated key %q is not recognised", key)
	}
}

func TestIsSnapshotKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{key: "snapshots/20240216-103005.250.json", want: true},
		{key: "snapshots/../secrets.json", want: false},
		{key: "other/20240216-103005.250.json", want: false},
		{key: "snapshots/20240216-103005.250.bin", want: false},
		{key: "", want: false},
	}

	for _, tt := range tests {
		if got := IsSnapshotKey(tt.key); got != tt.want {
			t.Errorf("IsSnapshotKey(%q) = %v, expected %v", tt.key, got, tt.want)
		}
	}
}
