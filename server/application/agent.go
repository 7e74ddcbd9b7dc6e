package application

import (
	"context"
	"math/rand/v2"

	"ambush/server/domain"
)

// AgentContext は1体のエージェントが持つ状態のすべてです。
// バトル開始時に作り、Step からだけ更新します。複数のバトルで共有しないでください。
type AgentContext struct {
	arena    *ArenaGeometry
	stats    CombatStats
	opponent OpponentLock
	record   OpponentRecord
	self     SelfModel

	// circleDirection は +1 か -1。tickをまたいで保持する唯一の移動状態です。
	circleDirection int

	rng *rand.Rand
}

var _ Controller = (*AgentContext)(nil)

type Option func(*AgentContext)

// WithRand は狙いのぶれに使う乱数源を差し替えます。
func WithRand(r *rand.Rand) Option {
	return func(a *AgentContext) {
		a.rng = r
	}
}

func NewAgentContext(arena *ArenaGeometry, opts ...Option) *AgentContext {
	a := &AgentContext{
		arena:           arena,
		record:          NewOpponentRecord(),
		circleDirection: 1,
		rng:             rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Step は1tick分のセンサーを反映し、レーダー・移動・砲塔の順に指示を決めます。
func (a *AgentContext) Step(ctx context.Context, batch *domain.SensorBatch) *domain.CommandBatch {
	a.Observe(ctx, batch)

	radar := AimRadar(a.self, a.opponent)
	move := a.planMovement()
	gun := a.planGun(ctx)

	return &domain.CommandBatch{
		Radar:       radar,
		BodyTurn:    move.TurnAngle,
		MaxVelocity: move.MaxVelocity,
		Move:        move.Distance,
		GunTurn:     gun.Turn,
		Fire:        gun.Fire,
	}
}

// StartRound は新しいラウンドに備えて相手と自機の状態を捨てます。
// 射撃の統計はバトルが終わるまで残します。
func (a *AgentContext) StartRound() {
	a.opponent = Unlocked()
	a.record = NewOpponentRecord()
	a.self = SelfModel{}
	a.circleDirection = 1
}

// Reset はバトル終了時にすべての状態を初期化します。
func (a *AgentContext) Reset() {
	a.StartRound()
	a.stats = CombatStats{}
}

func (a *AgentContext) Arena() *ArenaGeometry          { return a.arena }
func (a *AgentContext) Stats() CombatStats             { return a.stats }
func (a *AgentContext) Opponent() OpponentLock         { return a.opponent }
func (a *AgentContext) OpponentRecord() OpponentRecord { return a.record }
func (a *AgentContext) Self() SelfModel                { return a.self }
func (a *AgentContext) CircleDirection() int           { return a.circleDirection }
