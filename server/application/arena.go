package application

import (
	"math"

	"ambush/server/domain"
)

const (
	BotWidth     = 36.0
	BotHalfWidth = BotWidth / 2
	// WallBorder は壁沿いに補正した目的地を置く距離。内側矩形より少しだけ内側です。
	WallBorder = BotHalfWidth + 1.5
)

// Rect は軸平行な矩形です。境界上の点は内側とみなします。
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Contains(p domain.Point2D) bool {
	return p.X >= r.MinX && p.Y >= r.MinY && p.X <= r.MaxX && p.Y <= r.MaxY
}

// ArenaGeometry はアリーナの静的な形状です。最初に一度だけ作り、以降は読み取り専用です。
type ArenaGeometry struct {
	Width, Height float64
	// Inset は機体の中心が移動できる矩形 (各辺から機体半幅だけ内側)
	Inset   Rect
	Corners [4]domain.Point2D
	Center  domain.Point2D
}

// NewArenaGeometry は幅と高さから形状を作ります。
// Corners は内側矩形の四隅で、左下・右下・左上・右上の順です。
func NewArenaGeometry(width, height float64) *ArenaGeometry {
	g := &ArenaGeometry{
		Width:  width,
		Height: height,
		Inset: Rect{
			MinX: BotHalfWidth,
			MinY: BotHalfWidth,
			MaxX: width - BotHalfWidth,
			MaxY: height - BotHalfWidth,
		},
		Center: domain.Point2D{X: width / 2, Y: height / 2},
	}
	for i := range g.Corners {
		x := g.Inset.MinX
		if i%2 == 1 {
			x = g.Inset.MaxX
		}
		y := g.Inset.MinY
		if i > 1 {
			y = g.Inset.MaxY
		}
		g.Corners[i] = domain.Point2D{X: x, Y: y}
	}
	return g
}

// Project は origin から絶対角 angle の方向へ length 進んだ点を返します。
// 角度は +Y を0として時計回りです。
func Project(origin domain.Point2D, angle, length float64) domain.Point2D {
	return domain.Point2D{
		X: origin.X + math.Sin(angle)*length,
		Y: origin.Y + math.Cos(angle)*length,
	}
}

// AbsoluteBearing は from から to への絶対角を (-π, π] で返します。
func AbsoluteBearing(from, to domain.Point2D) float64 {
	return math.Atan2(to.X-from.X, to.Y-from.Y)
}

// Clamp は value を [min, max] に収めます。min <= max が前提です。
func Clamp(min, value, max float64) float64 {
	return math.Max(min, math.Min(value, max))
}

// NormalRelativeAngle は角度を [-π, π) に正規化します。
func NormalRelativeAngle(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	switch {
	case a >= math.Pi:
		a -= 2 * math.Pi
	case a < -math.Pi:
		a += 2 * math.Pi
	}
	return a
}

// ContainsInset は p が四辺すべてから margin 以上離れているかを返します。
func (g *ArenaGeometry) ContainsInset(p domain.Point2D, margin float64) bool {
	return p.X >= margin && p.Y >= margin && p.X <= g.Width-margin && p.Y <= g.Height-margin
}

// InPlayable は機体の中心として有効な位置かを返します。
func (g *ArenaGeometry) InPlayable(p domain.Point2D) bool {
	return g.Inset.Contains(p)
}

const wallSmoothPasses = 4

// WallSmooth は内側矩形からはみ出した目的地を、はみ出した辺の上へ移し、
// もう一方の座標を origin からの距離がおよそ radius に保たれるよう取り直します。
// 辺ごとに1回ずつ、最大4回まで補正します。4回で収まらない場合は最後の点を
// そのまま返すため、呼び出し側は矩形内を前提にしないでください。
func (g *ArenaGeometry) WallSmooth(origin, destination domain.Point2D, circleDirection int, radius float64) domain.Point2D {
	dir := float64(circleDirection)
	p := destination
	for i := 0; i < wallSmoothPasses && !g.InPlayable(p); i++ {
		switch {
		case p.X < WallBorder:
			p.X = WallBorder
			p.Y = origin.Y + dir*chord(radius, origin.X-WallBorder)
		case p.Y > g.Height-WallBorder:
			p.Y = g.Height - WallBorder
			p.X = origin.X + dir*chord(radius, g.Height-WallBorder-origin.Y)
		case p.X > g.Width-WallBorder:
			p.X = g.Width - WallBorder
			p.Y = origin.Y - dir*chord(radius, g.Width-WallBorder-origin.X)
		case p.Y < WallBorder:
			p.Y = WallBorder
			p.X = origin.X - dir*chord(radius, origin.Y-WallBorder)
		}
	}
	return p
}

// chord は半径 r の円で中心から a 離れた直線が切り取る弦の半分の長さです。
func chord(r, a float64) float64 {
	return math.Sqrt(math.Max(0, r*r-a*a))
}
