package adapterwebsocket

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"ambush/server/domain"
)

// newHost はWebSocketを受け付け、handle に接続を渡すテスト用ホストを立てます。
func newHost(t *testing.T, handle func(ctx context.Context, conn *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.CloseNow()
		handle(r.Context(), conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestTransport_BinaryRoundTrip(t *testing.T) {
	url := newHost(t, func(ctx context.Context, conn *websocket.Conn) {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		_ = conn.Write(ctx, typ, data)
		conn.Read(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer tr.Close(domain.CloseNormal, "")

	msg := domain.EncodeControlMessage(domain.NewSessionID(), 3, domain.ControlSubTypePing)
	if err := tr.Write(ctx, msg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := tr.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("Read() = %x, want %x", got, msg)
	}
}

func TestTransport_RejectsTextMessage(t *testing.T) {
	url := newHost(t, func(ctx context.Context, conn *websocket.Conn) {
		_ = conn.Write(ctx, websocket.MessageText, []byte("hello"))
		conn.Read(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer tr.Close(domain.CloseNormal, "")

	if _, err := tr.Read(ctx); err == nil {
		t.Error("Read() accepted a text message")
	}
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := Dial(ctx, "ws://127.0.0.1:1/ws"); err == nil {
		t.Error("Dial() to a closed port succeeded")
	}
}
