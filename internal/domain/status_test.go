package domain

import (
	"errors"
	"testing"
)

func TestParseMissionStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    MissionStatus
		wantErr bool
	}{
		{raw: "pending", want: MissionStatusPending},
		{raw: "In-Progress", want: MissionStatusInProgress},
		{raw: " completed ", want: MissionStatusCompleted},
		{raw: "failed", want: MissionStatusFailed},
		{raw: "scheduled", want: MissionStatusPending},
		{raw: "aborted", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMissionStatus(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to MissionStatus
		want     bool
	}{
		{MissionStatusPending, MissionStatusPending, true},
		{MissionStatusPending, MissionStatusInProgress, true},
		{MissionStatusPending, MissionStatusFailed, true},
		{MissionStatusPending, MissionStatusCompleted, false},
		{MissionStatusInProgress, MissionStatusCompleted, true},
		{MissionStatusInProgress, MissionStatusFailed, true},
		{MissionStatusInProgress, MissionStatusPending, false},
		{MissionStatusCompleted, MissionStatusPending, false},
		{MissionStatusFailed, MissionStatusInProgress, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusColor(t *testing.T) {
	tests := map[MissionStatus]string{
		MissionStatusCompleted:  "#10B981",
		MissionStatusInProgress: "#3B82F6",
		MissionStatusFailed:     "#EF4444",
		MissionStatusPending:    "#F59E0B",
		"COMPLETED":             "#10B981",
		"unknown":               "#6B7280",
	}

	for status, want := range tests {
		if got := StatusColor(status); got != want {
			t.Errorf("StatusColor(%q) = %s, want %s", status, got, want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if MissionStatusPending.IsTerminal() || MissionStatusInProgress.IsTerminal() {
		t.Error("pending and in-progress missions must stay editable")
	}
	if !MissionStatusCompleted.IsTerminal() || !MissionStatusFailed.IsTerminal() {
		t.Error("completed and failed missions must be terminal")
	}
}
