package application

import (
	"context"
	"math"
	"testing"

	"pgregory.net/rapid"

	"ambush/server/domain"
)

func statusAt(tick int64, x, y, heading, energy float64) domain.SelfStatus {
	return domain.SelfStatus{Tick: tick, X: x, Y: y, Heading: heading, Energy: energy}
}

func TestObserve_SelfStatus(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	status := domain.SelfStatus{
		Tick: 12, X: 100, Y: 200, Heading: 1,
		GunHeading: 2, RadarHeading: 3, Energy: 87, GunHeat: 0.4,
	}

	a.Observe(context.Background(), &domain.SensorBatch{Status: status})

	got := a.Self()
	if got.State.Tick != 12 || got.State.Position != (domain.Point2D{X: 100, Y: 200}) || got.State.Heading != 1 {
		t.Errorf("State = %+v", got.State)
	}
	if got.GunHeading != 2 || got.RadarHeading != 3 || got.Energy != 87 || got.GunHeat != 0.4 {
		t.Errorf("Self = %+v", got)
	}
	if a.Opponent().IsLocked() {
		t.Error("status alone should not lock an opponent")
	}
}

func TestObserve_SightedPosition(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))

	// 右を向いた自機の正面 200 に相手がいる
	a.Observe(context.Background(), &domain.SensorBatch{
		Status:  statusAt(5, 100, 100, math.Pi/2, 100),
		Sighted: &domain.OpponentSighted{Bearing: 0, Heading: 1.5, Distance: 200, Energy: 100, Name: "sample.Walls"},
	})

	last, ok := a.Opponent().Last()
	if !ok {
		t.Fatal("opponent should be locked")
	}
	if !approx(last.Position.X, 300, eps) || !approx(last.Position.Y, 100, eps) {
		t.Errorf("Position = %+v, want (300, 100)", last.Position)
	}
	if last.Tick != 5 || last.Heading != 1.5 {
		t.Errorf("Last = %+v", last)
	}
	rec := a.OpponentRecord()
	if rec.Name != "sample.Walls" || rec.LastInferredShotPower != InitialOpponentShotPower {
		t.Errorf("OpponentRecord() = %+v", rec)
	}
}

func TestObserve_InfersShotPower(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	ctx := context.Background()
	sight := func(tick int64, energy float64) {
		a.Observe(ctx, &domain.SensorBatch{
			Status:  statusAt(tick, 400, 300, 0, 100),
			Sighted: &domain.OpponentSighted{Distance: 200, Energy: energy},
		})
	}

	sight(1, 80)
	if rec := a.OpponentRecord(); rec.LastInferredShotPower != InitialOpponentShotPower {
		t.Fatalf("drop of 20 inferred as shot: %v", rec.LastInferredShotPower)
	}

	sight(2, 78.4)
	rec := a.OpponentRecord()
	if !approx(rec.LastInferredShotPower, 1.6, 1e-9) {
		t.Fatalf("LastInferredShotPower = %v, want 1.6", rec.LastInferredShotPower)
	}

	// 5 の減少は発砲ではないので推定値は残る
	sight(3, 73.4)
	rec = a.OpponentRecord()
	if !approx(rec.LastInferredShotPower, 1.6, 1e-9) {
		t.Errorf("LastInferredShotPower = %v, want 1.6 kept", rec.LastInferredShotPower)
	}
	if rec.Energy != 73.4 {
		t.Errorf("Energy = %v, want 73.4", rec.Energy)
	}
}

func TestInferShotPower(t *testing.T) {
	tests := []struct {
		name      string
		prev, obs float64
		want      float64
		fired     bool
	}{
		{"minimum shot", 50, 49.9, 0.1, true},
		{"maximum shot", 50, 47, 3, true},
		{"tiny drop", 50, 49.95, 0, false},
		{"big drop", 50, 40, 0, false},
		{"gain", 50, 56, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := inferShotPower(tt.prev, tt.obs)
			if fired != tt.fired || !approx(got, tt.want, 1e-9) {
				t.Errorf("inferShotPower(%v, %v) = (%v, %v), want (%v, %v)", tt.prev, tt.obs, got, fired, tt.want, tt.fired)
			}
		})
	}
}

func TestObserve_LandedAndHits(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	ctx := context.Background()
	a.stats = CombatStats{ShotEnergySpent: 3}

	a.Observe(ctx, &domain.SensorBatch{
		Status:  statusAt(1, 400, 300, 0, 100),
		Sighted: &domain.OpponentSighted{Distance: 200, Energy: 50},
	})
	a.Observe(ctx, &domain.SensorBatch{
		Status: statusAt(2, 400, 300, 0, 100),
		Landed: []domain.BulletLanded{{Power: 2}},
		Hits:   []domain.SelfWasHit{{Power: 1}},
	})

	// 50 - damage(2) + bonus(1)
	if got, want := a.OpponentRecord().Energy, 50.0-10+3; !approx(got, want, eps) {
		t.Errorf("Energy = %v, want %v", got, want)
	}
	if a.Stats().ShotEnergyLanded != 2 {
		t.Errorf("ShotEnergyLanded = %v, want 2", a.Stats().ShotEnergyLanded)
	}
}

func TestObserve_LandedCappedBySpent(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	a.stats = CombatStats{ShotEnergySpent: 1}

	a.Observe(context.Background(), &domain.SensorBatch{
		Status: statusAt(1, 400, 300, 0, 100),
		Landed: []domain.BulletLanded{{Power: 3}},
	})

	if got := a.Stats(); got.ShotEnergyLanded != 1 {
		t.Errorf("ShotEnergyLanded = %v, want capped at 1", got.ShotEnergyLanded)
	}
}

func TestObserve_HitBeforeFirstLock(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	ctx := context.Background()

	a.Observe(ctx, &domain.SensorBatch{
		Status: statusAt(1, 400, 300, 0, 100),
		Hits:   []domain.SelfWasHit{{Power: 1}},
	})
	if a.Opponent().IsLocked() {
		t.Error("hit event should not create a lock")
	}
	if got := a.OpponentRecord().Energy; got != 103 {
		t.Fatalf("Energy = %v, want 103 after bonus", got)
	}

	// 103 から 101.5 への減少は威力 1.5 の発砲
	a.Observe(ctx, &domain.SensorBatch{
		Status:  statusAt(2, 400, 300, 0, 100),
		Sighted: &domain.OpponentSighted{Distance: 200, Energy: 101.5},
	})
	if got := a.OpponentRecord().LastInferredShotPower; !approx(got, 1.5, 1e-9) {
		t.Errorf("LastInferredShotPower = %v, want 1.5", got)
	}
}

func TestObserve_LandedBeforeFirstLock(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	a.stats = CombatStats{ShotEnergySpent: 1}

	a.Observe(context.Background(), &domain.SensorBatch{
		Status: statusAt(1, 400, 300, 0, 100),
		Landed: []domain.BulletLanded{{Power: 1}},
	})

	if got := a.OpponentRecord().Energy; got != 96 {
		t.Errorf("Energy = %v, want 96 after damage", got)
	}
}

func TestStartRound_ResetsOpponentRecord(t *testing.T) {
	a := NewAgentContext(NewArenaGeometry(800, 600))
	a.Observe(context.Background(), &domain.SensorBatch{
		Status:  statusAt(1, 400, 300, 0, 100),
		Sighted: &domain.OpponentSighted{Distance: 200, Energy: 98, Name: "a"},
	})

	a.StartRound()

	if got := a.OpponentRecord(); got != NewOpponentRecord() {
		t.Errorf("OpponentRecord() = %+v, want %+v", got, NewOpponentRecord())
	}
}

func TestObserve_Destroyed(t *testing.T) {
	ctx := context.Background()
	locked := func() *AgentContext {
		a := NewAgentContext(NewArenaGeometry(800, 600))
		a.Observe(ctx, &domain.SensorBatch{
			Status:  statusAt(1, 400, 300, 0, 100),
			Sighted: &domain.OpponentSighted{Distance: 200, Energy: 50, Name: "a"},
		})
		return a
	}

	t.Run("tracked opponent", func(t *testing.T) {
		a := locked()
		a.Observe(ctx, &domain.SensorBatch{
			Status:    statusAt(2, 400, 300, 0, 100),
			Destroyed: &domain.OpponentDestroyed{Name: "a"},
		})
		if a.Opponent().IsLocked() {
			t.Error("lock should be released")
		}
	})

	t.Run("unnamed", func(t *testing.T) {
		a := locked()
		a.Observe(ctx, &domain.SensorBatch{
			Status:    statusAt(2, 400, 300, 0, 100),
			Destroyed: &domain.OpponentDestroyed{},
		})
		if a.Opponent().IsLocked() {
			t.Error("lock should be released")
		}
	})

	t.Run("other opponent", func(t *testing.T) {
		a := locked()
		a.Observe(ctx, &domain.SensorBatch{
			Status:    statusAt(2, 400, 300, 0, 100),
			Destroyed: &domain.OpponentDestroyed{Name: "b"},
		})
		if !a.Opponent().IsLocked() {
			t.Error("lock should be kept")
		}
	})

	t.Run("sighted in the same tick", func(t *testing.T) {
		a := locked()
		a.Observe(ctx, &domain.SensorBatch{
			Status:    statusAt(2, 400, 300, 0, 100),
			Destroyed: &domain.OpponentDestroyed{Name: "a"},
			Sighted:   &domain.OpponentSighted{Distance: 300, Energy: 100, Name: "c"},
		})
		if !a.Opponent().IsLocked() || a.OpponentRecord().Name != "c" {
			t.Errorf("record = %+v, want locked on c", a.OpponentRecord())
		}
	})
}

func TestCombatStats(t *testing.T) {
	var s CombatStats
	if s.HitRate() != 0 {
		t.Errorf("HitRate() = %v, want 0 before firing", s.HitRate())
	}

	s = s.RecordFired(2).RecordFired(2)
	s = s.RecordLanded(1)
	if !approx(s.HitRate(), 0.25, eps) {
		t.Errorf("HitRate() = %v, want 0.25", s.HitRate())
	}
}

func TestCombatStats_LandedNeverExceedsSpent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var s CombatStats
		n := rapid.IntRange(1, 100).Draw(t, "n")
		for i := 0; i < n; i++ {
			power := rapid.Float64Range(MinBulletPower, MaxBulletPower).Draw(t, "power")
			if rapid.Bool().Draw(t, "fired") {
				s = s.RecordFired(power)
			} else {
				s = s.RecordLanded(power)
			}
			if s.ShotEnergyLanded > s.ShotEnergySpent {
				t.Fatalf("landed %v > spent %v", s.ShotEnergyLanded, s.ShotEnergySpent)
			}
			if r := s.HitRate(); r < 0 || r > 1 {
				t.Fatalf("HitRate() = %v, out of [0, 1]", r)
			}
		}
	})
}

func TestOpponentLock(t *testing.T) {
	var zero OpponentLock
	if zero.IsLocked() {
		t.Error("zero value should be unlocked")
	}
	if _, ok := Unlocked().Last(); ok {
		t.Error("Unlocked().Last() reported a state")
	}

	last := AgentState{Tick: 7, Position: domain.Point2D{X: 1, Y: 2}}
	got, ok := Locked(last).Last()
	if !ok || got != last {
		t.Errorf("Locked(last).Last() = (%+v, %v), want (%+v, true)", got, ok, last)
	}
}
