package application

import "math"

// シミュレーション側の固定ルール
const (
	MaxVelocity    = 8.0 // 1tickあたりの最大移動量
	MinBulletPower = 0.1
	MaxBulletPower = 3.0

	InitialOpponentEnergy    = 100.0
	InitialOpponentShotPower = 2.0
)

// BulletSpeed は弾の速度 (1tickあたり) です。
func BulletSpeed(power float64) float64 {
	return 20 - 3*power
}

// BulletDamage は命中時に相手が失うエネルギーです。
func BulletDamage(power float64) float64 {
	damage := 4 * power
	if power > 1 {
		damage += 2 * (power - 1)
	}
	return damage
}

// BulletHitBonus は命中時に撃った側が回復するエネルギーです。
func BulletHitBonus(power float64) float64 {
	return 3 * power
}

// MaxEscapeAngle は最高速の相手がその威力の弾を避けられる、直線からの最大角です。
func MaxEscapeAngle(power float64) float64 {
	p := Clamp(MinBulletPower, power, MaxBulletPower)
	return math.Asin(Clamp(-1, MaxVelocity/BulletSpeed(p), 1))
}
