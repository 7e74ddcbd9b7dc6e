package application

import "ambush/server/domain"

// AgentState は1回の観測で得た機体の状態です。作成後は変更せず、次の観測で置き換えます。
type AgentState struct {
	Tick     int64
	Position domain.Point2D
	Heading  float64
}

// SelfModel は自機の最新の状態です。
type SelfModel struct {
	State        AgentState
	Energy       float64
	GunHeading   float64
	RadarHeading float64
	GunHeat      float64
}

// CombatStats はバトル中の射撃の累計です。ShotEnergyLanded <= ShotEnergySpent を保ちます。
type CombatStats struct {
	ShotEnergySpent  float64
	ShotEnergyLanded float64
}

// RecordFired は撃った弾の威力を加算します。
func (s CombatStats) RecordFired(power float64) CombatStats {
	s.ShotEnergySpent += power
	return s
}

// RecordLanded は命中した弾の威力を加算します。撃った総量を超えた分は切り捨てます。
func (s CombatStats) RecordLanded(power float64) CombatStats {
	s.ShotEnergyLanded = min(s.ShotEnergyLanded+power, s.ShotEnergySpent)
	return s
}

// HitRate は命中率 (命中した威力 / 撃った威力) です。まだ撃っていなければ0です。
func (s CombatStats) HitRate() float64 {
	if s.ShotEnergySpent <= 0 {
		return 0
	}
	return s.ShotEnergyLanded / s.ShotEnergySpent
}

// OpponentRecord はロックの有無に関係なく持ち続ける相手の推定値です。
// ラウンドの開始で初期値に戻します。
type OpponentRecord struct {
	Energy                float64
	LastInferredShotPower float64
	Name                  string
}

func NewOpponentRecord() OpponentRecord {
	return OpponentRecord{
		Energy:                InitialOpponentEnergy,
		LastInferredShotPower: InitialOpponentShotPower,
	}
}

// OpponentLock は Locked(最後に見た相手の状態) か Unlocked のどちらかです。
// ゼロ値は Unlocked です。
type OpponentLock struct {
	last   AgentState
	locked bool
}

func Locked(last AgentState) OpponentLock {
	return OpponentLock{last: last, locked: true}
}

func Unlocked() OpponentLock {
	return OpponentLock{}
}

// Last はロック中なら最後に見た相手の状態と true を返します。
func (l OpponentLock) Last() (AgentState, bool) {
	return l.last, l.locked
}

func (l OpponentLock) IsLocked() bool {
	return l.locked
}
