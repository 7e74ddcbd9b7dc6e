package domain

import (
	"encoding/binary"
	"errors"
	"time"
)

// バイトオーダー: リトルエンディアン
var byteOrder = binary.LittleEndian

const (
	ProtocolVersion   = 1
	HeaderSize        = 25
	PayloadHeaderSize = 2
)

// Header はメッセージヘッダー (25バイト)
//
//	version    u8      (1)
//	sessionID  [16]byte (16)
//	seq        u16     (2)
//	length     u16     (2)  - ペイロード長 (PayloadHeader を含む)
//	timestamp  u32     (4)
type Header struct {
	Version   uint8
	SessionID [16]byte
	Seq       uint16
	Length    uint16
	Timestamp uint32
}

// DataType はメッセージの種別
type DataType uint8

const (
	DataTypeSensor  DataType = 1 // ホスト → エージェント: 1tick分のセンサー
	DataTypeCommand DataType = 2 // エージェント → ホスト: 1tick分のコマンド
	DataTypeControl DataType = 4
)

// ControlSubType はcontrolメッセージのサブタイプ
type ControlSubType uint8

const (
	ControlSubTypeJoin       ControlSubType = 1
	ControlSubTypeLeave      ControlSubType = 2
	ControlSubTypeKick       ControlSubType = 3
	ControlSubTypePing       ControlSubType = 4
	ControlSubTypePong       ControlSubType = 5
	ControlSubTypeError      ControlSubType = 6
	ControlSubTypeAssign     ControlSubType = 7
	ControlSubTypeRoundStart ControlSubType = 8
	ControlSubTypeBattleEnd  ControlSubType = 9
)

// PayloadHeader はペイロードヘッダー (2バイト)
//
//	datatype  u8 (1)
//	subtype   u8 (1)
type PayloadHeader struct {
	DataType DataType
	SubType  uint8
}

var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidPayloadSize = errors.New("invalid payload size")
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
)

// ParseHeader はバイト列からHeaderをパースする
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrInvalidHeaderSize
	}

	var sessionID [16]byte
	copy(sessionID[:], data[1:17])

	return &Header{
		Version:   data[0],
		SessionID: sessionID,
		Seq:       byteOrder.Uint16(data[17:19]),
		Length:    byteOrder.Uint16(data[19:21]),
		Timestamp: byteOrder.Uint32(data[21:25]),
	}, nil
}

// Encode はHeaderをバイト列にエンコードする
func (h *Header) Encode() []byte {
	data := make([]byte, HeaderSize)
	data[0] = h.Version
	copy(data[1:17], h.SessionID[:])
	byteOrder.PutUint16(data[17:19], h.Seq)
	byteOrder.PutUint16(data[19:21], h.Length)
	byteOrder.PutUint32(data[21:25], h.Timestamp)
	return data
}

// ParsePayloadHeader はバイト列からPayloadHeaderをパースする
func ParsePayloadHeader(data []byte) (*PayloadHeader, error) {
	if len(data) < PayloadHeaderSize {
		return nil, ErrInvalidPayloadSize
	}

	return &PayloadHeader{
		DataType: DataType(data[0]),
		SubType:  data[1],
	}, nil
}

// Encode はPayloadHeaderをバイト列にエンコードする
func (p *PayloadHeader) Encode() []byte {
	return []byte{byte(p.DataType), p.SubType}
}

// Frame はヘッダーとペイロードヘッダーを解釈済みの1メッセージです。
// Body はペイロードヘッダー以降のバイト列で、元のバッファを共有します。
type Frame struct {
	Header        *Header
	PayloadHeader *PayloadHeader
	Body          []byte
}

// SessionID はヘッダーに載っているセッションIDを返します。
func (f *Frame) SessionID() SessionID {
	return SessionIDFromBytes(f.Header.SessionID)
}

// ParseFrame は受信したバイト列を Frame に分解する。
// Length がバッファより長い場合は ErrInvalidPayloadSize を返す。
func ParseFrame(data []byte) (*Frame, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Version != ProtocolVersion {
		return nil, ErrUnsupportedVersion
	}
	rest := data[HeaderSize:]
	if int(header.Length) > len(rest) {
		return nil, ErrInvalidPayloadSize
	}
	rest = rest[:header.Length]

	payloadHeader, err := ParsePayloadHeader(rest)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Header:        header,
		PayloadHeader: payloadHeader,
		Body:          rest[PayloadHeaderSize:],
	}, nil
}

// EncodeFrame はヘッダー・ペイロードヘッダー・本体を1つのメッセージにまとめる
func EncodeFrame(sessionID SessionID, seq uint16, dataType DataType, subType uint8, body []byte) []byte {
	length := PayloadHeaderSize + len(body)
	header := Header{
		Version:   ProtocolVersion,
		SessionID: sessionID.Bytes(),
		Seq:       seq,
		Length:    uint16(length),
		Timestamp: uint32(time.Now().UnixMilli() & 0xFFFFFFFF),
	}
	payloadHeader := PayloadHeader{DataType: dataType, SubType: subType}

	data := make([]byte, HeaderSize+length)
	copy(data[:HeaderSize], header.Encode())
	copy(data[HeaderSize:], payloadHeader.Encode())
	copy(data[HeaderSize+PayloadHeaderSize:], body)
	return data
}

// EncodeControlMessage は本体を持たないcontrolメッセージをエンコードする
func EncodeControlMessage(sessionID SessionID, seq uint16, subType ControlSubType) []byte {
	return EncodeFrame(sessionID, seq, DataTypeControl, uint8(subType), nil)
}

// EncodeCommandMessage は1tick分のコマンドをエンコードする
func EncodeCommandMessage(sessionID SessionID, seq uint16, cmd *CommandBatch) []byte {
	return EncodeFrame(sessionID, seq, DataTypeCommand, 0, cmd.Encode())
}

// EncodeSensorMessage は1tick分のセンサーをエンコードする (ホスト側・テスト用)
func EncodeSensorMessage(sessionID SessionID, seq uint16, batch *SensorBatch) []byte {
	return EncodeFrame(sessionID, seq, DataTypeSensor, 0, batch.Encode())
}
