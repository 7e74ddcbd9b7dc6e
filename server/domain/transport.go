package domain

import (
	"context"
)

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . Transport

// Transport はホストとの間でフレームを送受信するI/O境界です。
// 1回の Read が1フレームを返します。
type Transport interface {
	Read(ctx context.Context) (data []byte, err error)
	Write(ctx context.Context, data []byte) error
	Close(code int32, reason string) error
}

// 正常終了時のクローズコード (WebSocket の StatusNormalClosure と同値)
const CloseNormal int32 = 1000
