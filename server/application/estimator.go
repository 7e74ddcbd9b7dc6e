package application

import (
	"context"
	"log/slog"

	"ambush/server/domain"
)

// 相手のエネルギー減少を発砲とみなす範囲 (合法な威力 [0.1, 3.0] に誤差分の余裕を足したもの)
const (
	minInferredShot = 0.099
	maxInferredShot = 3.01
)

// Observe は1tick分のイベントを状態に反映します。
// 適用順は Status → Destroyed → Landed → Hits → Sighted です。
func (a *AgentContext) Observe(ctx context.Context, batch *domain.SensorBatch) {
	a.self = observeSelf(batch.Status)

	if batch.Destroyed != nil {
		next := destroyOpponent(a.opponent, a.record.Name, *batch.Destroyed)
		if a.opponent.IsLocked() && !next.IsLocked() {
			slog.DebugContext(ctx, "opponent lock lost", "tick", a.self.State.Tick, "name", batch.Destroyed.Name)
		}
		a.opponent = next
	}

	// エネルギーの増減はロックが無くても記録に反映する
	for _, e := range batch.Landed {
		a.stats, a.record = creditLandedHit(a.stats, a.record, e.Power)
	}
	for _, e := range batch.Hits {
		a.record = creditSelfHit(a.record, e.Power)
	}

	if batch.Sighted != nil {
		if !a.opponent.IsLocked() {
			slog.DebugContext(ctx, "opponent locked", "tick", a.self.State.Tick, "name", batch.Sighted.Name)
		}
		var power float64
		var fired bool
		a.opponent, a.record, power, fired = sightOpponent(a.self.State, a.record, *batch.Sighted)
		if fired {
			slog.DebugContext(ctx, "opponent fired", "tick", a.self.State.Tick, "power", power)
		}
	}
}

func observeSelf(s domain.SelfStatus) SelfModel {
	return SelfModel{
		State: AgentState{
			Tick:     s.Tick,
			Position: s.Position(),
			Heading:  s.Heading,
		},
		Energy:       s.Energy,
		GunHeading:   s.GunHeading,
		RadarHeading: s.RadarHeading,
		GunHeat:      s.GunHeat,
	}
}

// sightOpponent は観測から相手の位置を求めてロックし、記録を更新します。
// 記録のエネルギーからの減少量が発砲の範囲に入っていれば、その量を相手の弾の威力として記録します。
func sightOpponent(self AgentState, rec OpponentRecord, e domain.OpponentSighted) (OpponentLock, OpponentRecord, float64, bool) {
	power, fired := inferShotPower(rec.Energy, e.Energy)
	if fired {
		rec.LastInferredShotPower = power
	}
	rec.Energy = e.Energy
	rec.Name = e.Name

	last := AgentState{
		Tick:     self.Tick,
		Position: Project(self.Position, self.Heading+e.Bearing, e.Distance),
		Heading:  e.Heading,
	}
	return Locked(last), rec, power, fired
}

func inferShotPower(previousEnergy, observedEnergy float64) (float64, bool) {
	delta := previousEnergy - observedEnergy
	if delta > minInferredShot && delta < maxInferredShot {
		return delta, true
	}
	return 0, false
}

// creditLandedHit は命中を統計に加え、相手の推定エネルギーからダメージを引きます。
func creditLandedHit(stats CombatStats, rec OpponentRecord, power float64) (CombatStats, OpponentRecord) {
	rec.Energy -= BulletDamage(power)
	return stats.RecordLanded(power), rec
}

// creditSelfHit は相手が命中ボーナスで得たエネルギーを加えます。
func creditSelfHit(rec OpponentRecord, power float64) OpponentRecord {
	rec.Energy += BulletHitBonus(power)
	return rec
}

// destroyOpponent は追跡中の相手が破壊されたらロックを外します。
// 名前が付いていて追跡中の相手と異なる場合は無視します。
func destroyOpponent(lock OpponentLock, tracked string, e domain.OpponentDestroyed) OpponentLock {
	if !lock.IsLocked() {
		return lock
	}
	if e.Name != "" && tracked != "" && e.Name != tracked {
		return lock
	}
	return Unlocked()
}
