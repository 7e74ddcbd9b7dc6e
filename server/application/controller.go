package application

import (
	"context"

	"ambush/server/domain"
)

//go:generate go tool mockgen -destination=./mocks/controller_mock.go -package=mocks . Controller

// Controller はエージェントの意思決定インターフェースです。
// 1tickのセンサーを受け取り、同じtickに実行するコマンドを返します。
type Controller interface {
	Step(ctx context.Context, batch *domain.SensorBatch) *domain.CommandBatch
	// StartRound はラウンド開始時に呼ばれます。
	StartRound()
	// Reset はバトル終了時に呼ばれます。
	Reset()
}
