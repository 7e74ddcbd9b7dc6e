package application

import (
	"math"

	"ambush/server/domain"
)

const (
	minOrbitDistance = 350.0
	maxOrbitDistance = 1000.0
	orbitApproach    = 80.0

	smallestFactor = 0.95
	biggestFactor  = 1.7
	minWallStick   = 100.0
	maxWallStick   = 120.0

	// 目的地に近いときの挙動
	arrivalDistance   = 1.0
	overshootDistance = 15.0
	overshootTurn     = 0.1
)

// MovementCommand は1tick分の移動指示です。Distance が負なら後退します。
type MovementCommand struct {
	TurnAngle   float64
	Distance    float64
	MaxVelocity float64
}

// DesiredDistance は相手との目標距離です。遠ければ詰め、近すぎれば350を保ちます。
func DesiredDistance(distance float64) float64 {
	return Clamp(minOrbitDistance, distance+orbitApproach, maxOrbitDistance)
}

// Circle は相手の周りを circleDirection 向きに回るときの次の目的地を返します。
func (g *ArenaGeometry) Circle(self domain.Point2D, circleDirection int, opponent domain.Point2D, desiredDistance, opponentShotPower float64) domain.Point2D {
	distance := self.Distance(opponent)
	factor := Clamp(smallestFactor, desiredDistance/distance, biggestFactor)
	wallStick := Clamp(minWallStick, distance*math.Sin(MaxEscapeAngle(opponentShotPower)), maxWallStick)

	angle := AbsoluteBearing(self, opponent) - factor*float64(circleDirection)*math.Pi/2
	return g.WallSmooth(self, Project(self, angle, wallStick), circleDirection, wallStick)
}

// chooseCircleDirection は現在の向きの候補 current と逆向きの候補 reverse を比べ、
// current が相手に近づき、かつ reverse が相手から遠ざかる場合だけ向きを反転します。
func chooseCircleDirection(self, opponent domain.Point2D, direction int, current, reverse domain.Point2D) (int, domain.Point2D) {
	if opponent.Distance(current) < self.Distance(current) && opponent.Distance(reverse) > self.Distance(reverse) {
		return -direction, reverse
	}
	return direction, current
}

// planMovement は移動指示を作ります。ロックがなければその場に留まります。
func (a *AgentContext) planMovement() MovementCommand {
	self := a.self.State
	destination := self.Position

	if last, ok := a.opponent.Last(); ok {
		target := last.Position
		desired := DesiredDistance(self.Position.Distance(target))
		current := a.arena.Circle(self.Position, a.circleDirection, target, desired, a.record.LastInferredShotPower)
		reverse := a.arena.Circle(self.Position, -a.circleDirection, target, desired, a.record.LastInferredShotPower)
		a.circleDirection, destination = chooseCircleDirection(self.Position, target, a.circleDirection, current, reverse)
	}

	return a.arena.GoTo(self, destination)
}

// GoTo は目的地へ向かう旋回量・移動量・最高速度を返します。
// 90度を超えて曲がる必要があるときは後退で向かいます。
func (g *ArenaGeometry) GoTo(state AgentState, destination domain.Point2D) MovementCommand {
	dx := destination.X - state.Position.X
	dy := destination.Y - state.Position.Y
	targetAngle := NormalRelativeAngle(math.Atan2(dx, dy) - state.Heading)
	distance := math.Hypot(dx, dy)
	turnAngle := math.Atan(math.Tan(targetAngle))

	sign := 1.0
	if math.Abs(targetAngle) > math.Pi/2 {
		sign = -1
	}

	var cmd MovementCommand
	if distance > arrivalDistance {
		cmd.TurnAngle = turnAngle
	}
	cmd.MaxVelocity = g.safeVelocity(state, turnAngle, sign)
	cmd.Distance = sign * distance

	if distance < overshootDistance && math.Abs(turnAngle) > overshootTurn {
		cmd.MaxVelocity = 0
	}
	return cmd
}

// safeVelocity は旋回量から出せる速度を上限に1ずつ下げ、
// 加速してから止まるまでの距離 (v²/2 + v) 先が内側矩形に収まる最大の速度を返します。
// 結果は0未満になりません。
func (g *ArenaGeometry) safeVelocity(state AgentState, turnAngle, sign float64) float64 {
	velocity := math.Min(MaxVelocity, math.Cos(turnAngle)*10) + 1
	for {
		velocity--
		stop := velocity*velocity/2 + velocity
		if !(velocity > 0) || g.InPlayable(Project(state.Position, state.Heading, sign*stop)) {
			break
		}
	}
	return math.Max(0, velocity)
}
