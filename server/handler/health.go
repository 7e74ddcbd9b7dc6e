package handler

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// Liveness はホストに接続中のエージェント数を数えます。
type Liveness struct {
	connected atomic.Int64
}

// Connect は接続を1つ数え、切断時に呼ぶ関数を返します。返した関数は何度呼んでも1回分しか減らしません。
func (l *Liveness) Connect() func() {
	l.connected.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { l.connected.Add(-1) })
	}
}

func (l *Liveness) Connected() int64 {
	return l.connected.Load()
}

// NewHealthHandler は接続中のエージェントがいれば200、いなければ503を返します。
func NewHealthHandler(l *Liveness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if l.Connected() > 0 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}
