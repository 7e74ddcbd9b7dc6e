package domain

import (
	"errors"
	"math"
)

const Point2DSize = 16 // 2 * float64

// Point2D はアリーナ上の座標です。Y軸は上向きが正です。
type Point2D struct {
	X, Y float64
}

var ErrInvalidPoint2DData = errors.New("invalid point2d data: expected 16 bytes")

// Distance は2点間のユークリッド距離を返します。
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func ParsePoint2D(data []byte) (*Point2D, error) {
	if len(data) < Point2DSize {
		return nil, ErrInvalidPoint2DData
	}

	return &Point2D{
		X: math.Float64frombits(byteOrder.Uint64(data[0:8])),
		Y: math.Float64frombits(byteOrder.Uint64(data[8:16])),
	}, nil
}

func (p *Point2D) Encode() []byte {
	buf := make([]byte, Point2DSize)
	byteOrder.PutUint64(buf[0:8], math.Float64bits(p.X))
	byteOrder.PutUint64(buf[8:16], math.Float64bits(p.Y))
	return buf
}
