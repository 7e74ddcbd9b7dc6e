package domain

import (
	"math"
	"unicode/utf8"
)

const maxNameLen = 255

// payloadReader は可変長ペイロードを先頭から読み進めるカーソルです。
// 一度でも長さが足りなくなると以降の読み出しはゼロ値を返し、err に記録します。
type payloadReader struct {
	buf []byte
	off int
	err error
	// 長さ不足時に返すエラー
	short error
}

func newPayloadReader(buf []byte, short error) *payloadReader {
	return &payloadReader{buf: buf, short: short}
}

func (r *payloadReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = r.short
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *payloadReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *payloadReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return byteOrder.Uint64(b)
}

func (r *payloadReader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *payloadReader) point() Point2D {
	p, err := ParsePoint2D(r.take(Point2DSize))
	if err != nil {
		r.err = r.short
		return Point2D{}
	}
	return *p
}

func (r *payloadReader) name() string {
	n := int(r.u8())
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

type payloadWriter struct {
	buf []byte
}

func (w *payloadWriter) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *payloadWriter) u64(v uint64) {
	w.buf = byteOrder.AppendUint64(w.buf, v)
}

func (w *payloadWriter) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *payloadWriter) point(p Point2D) {
	w.buf = append(w.buf, p.Encode()...)
}

// name は最大255バイトに切り詰めて長さ付きで書き込む
func (w *payloadWriter) name(s string) {
	s = TruncateUTF8(s, maxNameLen)
	w.u8(uint8(len(s)))
	w.buf = append(w.buf, s...)
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// TruncateUTF8 は s を n バイト以内に縮めます。マルチバイト文字の途中では切りません。
func TruncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
