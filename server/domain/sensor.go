package domain

import "errors"

// SelfStatus は毎tick必ず届く自機の状態です。角度はすべてラジアンで、
// 上向き(+Y)を0として時計回りに増えます。
type SelfStatus struct {
	Tick         int64
	X, Y         float64
	Heading      float64
	GunHeading   float64
	RadarHeading float64
	Energy       float64
	GunHeat      float64
}

// Position は自機の座標を返します。
func (s SelfStatus) Position() Point2D {
	return Point2D{X: s.X, Y: s.Y}
}

// OpponentSighted はレーダーが相手を捉えたときの観測値です。
// Bearing は自機の向きからの相対角です。
type OpponentSighted struct {
	Bearing  float64
	Heading  float64
	Distance float64
	Energy   float64
	Name     string
}

// BulletLanded は自分の弾が相手に命中したことを表します。
type BulletLanded struct {
	Power float64
}

// SelfWasHit は相手の弾が自機に命中したことを表します。
type SelfWasHit struct {
	Power float64
}

// OpponentDestroyed は相手が破壊されたことを表します。
// Name が空のときは追跡中の相手とみなします。
type OpponentDestroyed struct {
	Name string
}

// SensorBatch は1tick分のセンサー入力です。
type SensorBatch struct {
	Status    SelfStatus
	Sighted   *OpponentSighted
	Landed    []BulletLanded
	Hits      []SelfWasHit
	Destroyed *OpponentDestroyed
}

const (
	sensorFlagSighted   = 1 << 0
	sensorFlagDestroyed = 1 << 1

	selfStatusSize = 8 + 7*8
	maxEventCount  = 255
)

var ErrInvalidSensorData = errors.New("invalid sensor data")

// ParseSensorBatch はバイト列からSensorBatchをパースする
//
//	status     SelfStatus (64) - tick u64 + Point2D + 5 float64
//	flags      u8         (1)  - bit0: sighted, bit1: destroyed
//	[sighted]  4 float64 + name (u8長 + bytes)
//	landed     u8 + n * float64
//	hits       u8 + n * float64
//	[destroyed] name (u8長 + bytes)
func ParseSensorBatch(data []byte) (*SensorBatch, error) {
	if len(data) < selfStatusSize+1 {
		return nil, ErrInvalidSensorData
	}
	r := newPayloadReader(data, ErrInvalidSensorData)

	b := &SensorBatch{}
	tick := int64(r.u64())
	pos := r.point()
	b.Status = SelfStatus{
		Tick:         tick,
		X:            pos.X,
		Y:            pos.Y,
		Heading:      r.f64(),
		GunHeading:   r.f64(),
		RadarHeading: r.f64(),
		Energy:       r.f64(),
		GunHeat:      r.f64(),
	}
	flags := r.u8()

	if flags&sensorFlagSighted != 0 {
		b.Sighted = &OpponentSighted{
			Bearing:  r.f64(),
			Heading:  r.f64(),
			Distance: r.f64(),
			Energy:   r.f64(),
			Name:     r.name(),
		}
	}

	if n := int(r.u8()); n > 0 {
		b.Landed = make([]BulletLanded, n)
		for i := range b.Landed {
			b.Landed[i].Power = r.f64()
		}
	}
	if n := int(r.u8()); n > 0 {
		b.Hits = make([]SelfWasHit, n)
		for i := range b.Hits {
			b.Hits[i].Power = r.f64()
		}
	}

	if flags&sensorFlagDestroyed != 0 {
		b.Destroyed = &OpponentDestroyed{Name: r.name()}
	}

	if r.err != nil {
		return nil, r.err
	}
	return b, nil
}

// Encode はSensorBatchをバイト列にエンコードする。
// イベントは種類ごとに先頭255件までを書き込む。
func (b *SensorBatch) Encode() []byte {
	w := &payloadWriter{buf: make([]byte, 0, selfStatusSize+64)}
	s := b.Status
	w.u64(uint64(s.Tick))
	w.point(s.Position())
	w.f64(s.Heading)
	w.f64(s.GunHeading)
	w.f64(s.RadarHeading)
	w.f64(s.Energy)
	w.f64(s.GunHeat)

	var flags uint8
	if b.Sighted != nil {
		flags |= sensorFlagSighted
	}
	if b.Destroyed != nil {
		flags |= sensorFlagDestroyed
	}
	w.u8(flags)

	if b.Sighted != nil {
		w.f64(b.Sighted.Bearing)
		w.f64(b.Sighted.Heading)
		w.f64(b.Sighted.Distance)
		w.f64(b.Sighted.Energy)
		w.name(b.Sighted.Name)
	}

	landed := b.Landed
	if len(landed) > maxEventCount {
		landed = landed[:maxEventCount]
	}
	w.u8(uint8(len(landed)))
	for _, e := range landed {
		w.f64(e.Power)
	}

	hits := b.Hits
	if len(hits) > maxEventCount {
		hits = hits[:maxEventCount]
	}
	w.u8(uint8(len(hits)))
	for _, e := range hits {
		w.f64(e.Power)
	}

	if b.Destroyed != nil {
		w.name(b.Destroyed.Name)
	}
	return w.buf
}
