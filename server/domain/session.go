package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionID はホストとのセッションを識別するIDです。UUID文字列を保持します。
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string {
	return string(id)
}

// Bytes はヘッダーに埋め込む16バイト表現を返します。UUIDでない場合はゼロ値です。
func (id SessionID) Bytes() [16]byte {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return [16]byte{}
	}
	return u
}

func SessionIDFromBytes(b [16]byte) SessionID {
	if b == ([16]byte{}) {
		return ""
	}
	return SessionID(uuid.UUID(b).String())
}

// Session はホストとの1接続の活動状態を表す構造体です。
type Session struct {
	id atomic.Value // SessionID

	lastRead  atomic.Int64
	lastWrite atomic.Int64
	lastPong  atomic.Int64

	closed atomic.Bool
}

// NewSession はローカルで採番したIDでセッションを作成します。
// ホストからAssignを受け取ったら SetID で置き換えます。
func NewSession() *Session {
	s := &Session{}
	s.id.Store(NewSessionID())
	now := time.Now().UnixNano()
	s.lastRead.Store(now)
	s.lastWrite.Store(now)
	s.lastPong.Store(now)
	return s
}

func (s *Session) ID() SessionID {
	return s.id.Load().(SessionID)
}

func (s *Session) SetID(id SessionID) {
	if id == "" {
		return
	}
	s.id.Store(id)
}

func (s *Session) TouchRead() {
	s.lastRead.Store(time.Now().UnixNano())
}

func (s *Session) TouchWrite() {
	s.lastWrite.Store(time.Now().UnixNano())
}

func (s *Session) TouchPong() {
	s.lastPong.Store(time.Now().UnixNano())
}

func (s *Session) Close() bool {
	return s.closed.CompareAndSwap(false, true)
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// IsIdle はタイムアウトを超えて活動がない方向を返します。
func (s *Session) IsIdle(timeout time.Duration) (bool, IdleReason) {
	if timeout <= 0 {
		return false, IdleDisabled
	}
	var reason IdleReason
	if isIdleSince(s.lastRead.Load(), timeout) {
		reason |= IdleRead
	}
	if isIdleSince(s.lastWrite.Load(), timeout) {
		reason |= IdleWrite
	}
	if isIdleSince(s.lastPong.Load(), timeout) {
		reason |= IdlePong
	}
	return reason != IdleNone, reason
}

func (s *Session) IsReadIdle(timeout time.Duration) bool {
	return timeout > 0 && isIdleSince(s.lastRead.Load(), timeout)
}

func isIdleSince(lastNano int64, timeout time.Duration) bool {
	return time.Since(time.Unix(0, lastNano)) > timeout
}
