package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrSessionIdle はホストからの受信が途絶えたときに返されるエラーです。
var ErrSessionIdle = errors.New("session idle")

// IdleWatchdog は一定間隔でセッションの受信状況を確認する死活監視です。
type IdleWatchdog struct {
	interval time.Duration
	timeout  time.Duration
	session  *Session
}

// NewIdleWatchdog は新しいIdleWatchdogを生成します。timeout が0以下なら監視しません。
func NewIdleWatchdog(interval, timeout time.Duration, session *Session) *IdleWatchdog {
	return &IdleWatchdog{
		interval: interval,
		timeout:  timeout,
		session:  session,
	}
}

// Run は interval ごとにセッションを調べ、timeout を超えてホストから
// 何も届いていなければ ErrSessionIdle を返します。
// ctxがキャンセルされると nil で終了します。
func (w *IdleWatchdog) Run(ctx context.Context) error {
	if w.timeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !w.session.IsReadIdle(w.timeout) {
				continue
			}
			_, reason := w.session.IsIdle(w.timeout)
			slog.WarnContext(ctx, "watchdog: host silent", "sessionID", w.session.ID(), "reason", reason)
			return fmt.Errorf("%w: %s", ErrSessionIdle, reason)
		}
	}
}
