package application

import (
	"math"

	"ambush/server/domain"
)

// RadarMode はレーダーの状態です。
type RadarMode uint8

const (
	RadarSearching RadarMode = iota
	RadarTracking
)

func (m RadarMode) String() string {
	if m == RadarTracking {
		return "tracking"
	}
	return "searching"
}

// RadarModeOf はロックの有無からレーダーの状態を決めます。
func RadarModeOf(lock OpponentLock) RadarMode {
	if lock.IsLocked() {
		return RadarTracking
	}
	return RadarSearching
}

// AimRadar はレーダーの回転指示を返します。
// ロックがなければ全周スイープ、あれば最後に見た位置へ、
// その後に相手が動けた最大角度だけ行き過ぎるように回します。
func AimRadar(self SelfModel, lock OpponentLock) domain.RadarTurn {
	last, ok := lock.Last()
	if !ok {
		return domain.RadarTurn{Sweep: true}
	}

	from := self.State.Position
	to := last.Position
	bearing := AbsoluteBearing(from, to)

	elapsed := max(self.State.Tick-last.Tick, 0)
	drift := float64(elapsed) * MaxVelocity
	extra := math.Atan2(drift, from.Distance(to))

	if NormalRelativeAngle(bearing-self.RadarHeading) < 0 {
		extra = -extra
	}
	return domain.RadarTurn{Radians: NormalRelativeAngle(bearing + extra - self.RadarHeading)}
}
