package utils

import (
	"math"

	"ambush/server/domain"
)

func FinitePoint(p domain.Point2D) bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// FiniteCommand はコマンドに NaN や Inf が混ざっていないかを返します。
// スイープ中のレーダー角は使われないので見ません。
func FiniteCommand(c *domain.CommandBatch) bool {
	if c == nil {
		return false
	}
	if !c.Radar.Sweep && !isFinite(c.Radar.Radians) {
		return false
	}
	if c.Fire != nil && !isFinite(c.Fire.Power) {
		return false
	}
	return isFinite(c.BodyTurn) && isFinite(c.MaxVelocity) && isFinite(c.Move) && isFinite(c.GunTurn)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
