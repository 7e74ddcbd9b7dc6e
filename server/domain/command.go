package domain

import "errors"

// RadarTurn はレーダーの回転指示です。Sweep が true のときは最大速度で回り続けます。
type RadarTurn struct {
	Sweep   bool
	Radians float64
}

// Fire は射撃指示です。
type Fire struct {
	Power float64
}

// CommandBatch は1tick分のアクチュエータ指示です。
// 角度は右回り(時計回り)が正です。Fire が nil のときは撃ちません。
type CommandBatch struct {
	Radar       RadarTurn
	BodyTurn    float64
	MaxVelocity float64
	Move        float64
	GunTurn     float64
	Fire        *Fire
}

const (
	commandFlagSweep = 1 << 0
	commandFlagFire  = 1 << 1

	CommandBatchSize = 1 + 6*8
)

var ErrInvalidCommandData = errors.New("invalid command data")

// ParseCommandBatch はバイト列からCommandBatchをパースする
//
//	flags        u8      (1) - bit0: sweep, bit1: fire
//	radar        float64 (8)
//	bodyTurn     float64 (8)
//	maxVelocity  float64 (8)
//	move         float64 (8)
//	gunTurn      float64 (8)
//	firePower    float64 (8)
func ParseCommandBatch(data []byte) (*CommandBatch, error) {
	if len(data) < CommandBatchSize {
		return nil, ErrInvalidCommandData
	}
	r := newPayloadReader(data, ErrInvalidCommandData)

	flags := r.u8()
	c := &CommandBatch{
		Radar:       RadarTurn{Sweep: flags&commandFlagSweep != 0, Radians: r.f64()},
		BodyTurn:    r.f64(),
		MaxVelocity: r.f64(),
		Move:        r.f64(),
		GunTurn:     r.f64(),
	}
	power := r.f64()
	if flags&commandFlagFire != 0 {
		c.Fire = &Fire{Power: power}
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// Encode はCommandBatchをバイト列にエンコードする
func (c *CommandBatch) Encode() []byte {
	w := &payloadWriter{buf: make([]byte, 0, CommandBatchSize)}
	var flags uint8
	flags |= boolByte(c.Radar.Sweep) * commandFlagSweep
	var power float64
	if c.Fire != nil {
		flags |= commandFlagFire
		power = c.Fire.Power
	}
	w.u8(flags)
	w.f64(c.Radar.Radians)
	w.f64(c.BodyTurn)
	w.f64(c.MaxVelocity)
	w.f64(c.Move)
	w.f64(c.GunTurn)
	w.f64(power)
	return w.buf
}
