package application

import (
	"math"
	"testing"

	"ambush/server/domain"
)

func lockedAt(tick int64, p domain.Point2D) OpponentLock {
	return Locked(AgentState{Tick: tick, Position: p})
}

func TestAimRadar_SweepsWithoutLock(t *testing.T) {
	got := AimRadar(SelfModel{}, Unlocked())
	if !got.Sweep {
		t.Errorf("AimRadar() = %+v, want sweep", got)
	}
	if RadarModeOf(Unlocked()) != RadarSearching {
		t.Error("mode should be searching")
	}
}

func TestAimRadar_Tracking(t *testing.T) {
	selfAt := func(tick int64, radarHeading float64) SelfModel {
		return SelfModel{
			State:        AgentState{Tick: tick, Position: domain.Point2D{X: 400, Y: 300}},
			RadarHeading: radarHeading,
		}
	}
	opp := domain.Point2D{X: 400, Y: 500}
	extra := math.Atan2(5*MaxVelocity, 200)

	tests := []struct {
		name         string
		tick         int64
		radarHeading float64
		want         float64
	}{
		{"fresh and aligned", 10, 0, 0},
		{"stale target to the right", 15, -0.5, 0.5 + extra},
		{"stale target to the left", 15, 0.5, -0.5 - extra},
		{"observed in the future", 8, -0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock := lockedAt(10, opp)
			got := AimRadar(selfAt(tt.tick, tt.radarHeading), lock)
			if got.Sweep {
				t.Fatal("tracking radar should not sweep")
			}
			if !approx(got.Radians, tt.want, 1e-9) {
				t.Errorf("Radians = %v, want %v", got.Radians, tt.want)
			}
		})
	}

	if RadarModeOf(lockedAt(10, opp)) != RadarTracking {
		t.Error("mode should be tracking")
	}
}

func TestAimRadar_WrapsAroundBehind(t *testing.T) {
	self := SelfModel{
		State:        AgentState{Tick: 3, Position: domain.Point2D{X: 400, Y: 300}},
		RadarHeading: 3,
	}
	// 真下 (π) の相手は、3 ラジアンを向いたレーダーから見て右へ約 0.14
	got := AimRadar(self, lockedAt(3, domain.Point2D{X: 400, Y: 100}))
	if !approx(got.Radians, math.Pi-3, 1e-9) {
		t.Errorf("Radians = %v, want %v", got.Radians, math.Pi-3)
	}
}

func TestRadarMode_String(t *testing.T) {
	if RadarSearching.String() != "searching" || RadarTracking.String() != "tracking" {
		t.Errorf("String() = %q, %q", RadarSearching, RadarTracking)
	}
}
