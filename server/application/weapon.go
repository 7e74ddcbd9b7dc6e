package application

import (
	"context"
	"log/slog"
	"math"

	"ambush/server/domain"
)

const (
	pointBlankRange = 140.0
	taperRange      = 325.0
	disengageRange  = 600.0

	basePower     = 1.99
	accuratePower = 2.49
	sharpPower    = 2.99
	// 命中率による威力の引き上げに必要な、これまでに撃った威力の合計
	minFiredForHitRate = 20.0
	accurateHitRate    = 0.25
	sharpHitRate       = 0.33

	taperEnergy       = 63.0
	lowEnergy         = 20.0
	minPowerDownPoint = 35.0

	maxFirePower  = 2.999
	minFireEnergy = 0.101

	jitterWidth   = 3.0  // 狙いのぶれ幅 (距離に対する横幅)
	fireTolerance = 14.0 // 砲身がこの横幅以内を向いていれば撃つ
)

// BulletPowerInput は威力の決定に使う値です。
type BulletPowerInput struct {
	Distance          float64
	Energy            float64
	OpponentEnergy    float64
	OpponentShotPower float64
	Stats             CombatStats
}

// CalculateBulletPower は撃つ弾の威力を返します。結果は常に [0.1, 2.999] です。
func CalculateBulletPower(in BulletPowerInput) float64 {
	if in.Distance < pointBlankRange {
		return Clamp(MinBulletPower, in.Energy, maxFirePower)
	}

	power := basePower
	hitRate := in.Stats.HitRate()
	if in.Stats.ShotEnergySpent >= minFiredForHitRate && hitRate > accurateHitRate {
		power = accuratePower
		if hitRate > sharpHitRate {
			power = sharpPower
		}
	}

	if in.Distance > taperRange && in.Energy < taperEnergy {
		if in.Distance > disengageRange && (in.Energy < lowEnergy || in.Energy-10 < in.OpponentEnergy) {
			power = MinBulletPower
		} else {
			powerDownPoint := Clamp(minPowerDownPoint, taperEnergy+4*(in.OpponentEnergy-in.Energy), taperEnergy)
			if in.Energy < powerDownPoint {
				v := in.Energy / powerDownPoint
				power = math.Min(power, v*v*v*basePower)
			}
			if in.Energy-25 < in.OpponentEnergy {
				power = math.Min(power, in.OpponentShotPower*0.9)
			}
		}
	}

	power = math.Min(power, in.OpponentEnergy/4)
	power = math.Min(power, in.Energy)
	return Clamp(MinBulletPower, power, maxFirePower)
}

// GunCommand は砲塔の旋回量と、撃つ場合の威力です。
type GunCommand struct {
	Turn float64
	Fire *domain.Fire
}

// planGun は最後に見た相手の位置へ、ランダムなぶれを足して砲塔を向けます。
// 砲身が十分に向いていてエネルギーが残っていれば撃ち、撃った威力を統計に加えます。
func (a *AgentContext) planGun(ctx context.Context) GunCommand {
	last, ok := a.opponent.Last()
	if !ok {
		return GunCommand{}
	}

	self := a.self
	target := last.Position
	distance := self.State.Position.Distance(target)
	power := CalculateBulletPower(BulletPowerInput{
		Distance:          distance,
		Energy:            self.Energy,
		OpponentEnergy:    a.record.Energy,
		OpponentShotPower: a.record.LastInferredShotPower,
		Stats:             a.stats,
	})

	jitter := (2*a.rng.Float64() - 1) * math.Atan2(jitterWidth, distance)
	bearing := AbsoluteBearing(self.State.Position, target)
	cmd := GunCommand{Turn: NormalRelativeAngle(bearing + jitter - self.GunHeading)}

	if self.Energy > minFireEnergy && self.GunHeat <= 0 && math.Abs(cmd.Turn) < math.Atan2(fireTolerance, distance) {
		cmd.Fire = &domain.Fire{Power: power}
		a.stats = a.stats.RecordFired(power)
		slog.DebugContext(ctx, "fire", "tick", self.State.Tick, "power", power, "distance", distance)
	}
	return cmd
}
