package utils

import (
	"math"
	"testing"

	"ambush/server/domain"
)

func TestFiniteCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  *domain.CommandBatch
		want bool
	}{
		{"nil", nil, false},
		{"zero", &domain.CommandBatch{}, true},
		{"sweep ignores radians", &domain.CommandBatch{Radar: domain.RadarTurn{Sweep: true, Radians: math.Inf(1)}}, true},
		{"nan radar", &domain.CommandBatch{Radar: domain.RadarTurn{Radians: math.NaN()}}, false},
		{"nan move", &domain.CommandBatch{Move: math.NaN()}, false},
		{"inf velocity", &domain.CommandBatch{MaxVelocity: math.Inf(-1)}, false},
		{"nan fire", &domain.CommandBatch{Fire: &domain.Fire{Power: math.NaN()}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FiniteCommand(tt.cmd); got != tt.want {
				t.Errorf("FiniteCommand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinitePoint(t *testing.T) {
	if !FinitePoint(domain.Point2D{X: 1, Y: 2}) {
		t.Error("finite point reported as non-finite")
	}
	if FinitePoint(domain.Point2D{X: math.NaN()}) {
		t.Error("NaN point reported as finite")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("AMBUSH_TEST_INT", "")
	if n, err := GetEnvInt("AMBUSH_TEST_INT", 3); err != nil || n != 3 {
		t.Errorf("default: got (%d, %v), want (3, nil)", n, err)
	}
	t.Setenv("AMBUSH_TEST_INT", "7")
	if n, err := GetEnvInt("AMBUSH_TEST_INT", 3); err != nil || n != 7 {
		t.Errorf("set: got (%d, %v), want (7, nil)", n, err)
	}
	t.Setenv("AMBUSH_TEST_INT", "seven")
	if _, err := GetEnvInt("AMBUSH_TEST_INT", 3); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
