// Package codec implements the self-describing binary encoding used for
// persisted records. Every value carries a type tag; integers are
// little-endian, strings are length-prefixed, messages are sequences of
// numbered fields. Encoding and decoding round-trip exactly.
package codec

import (
	"encoding/binary"
	"fmt"
)

// TypeID tags every encoded value.
type TypeID uint8

const (
	TypeUint64 TypeID = iota + 1
	TypeString
	TypeMessage
)

// Value holds a decoded value of any supported type.
type Value struct {
	Type    TypeID
	Uint64  uint64
	String  string
	Message []Field
}

// Field is a numbered field inside a message value.
type Field struct {
	Number uint32
	Value  Value
}

func Uint64(v uint64) Value {
	return Value{Type: TypeUint64, Uint64: v}
}

func String(s string) Value {
	return Value{Type: TypeString, String: s}
}

func Message(fields ...Field) Value {
	return Value{Type: TypeMessage, Message: fields}
}

func F(number uint32, v Value) Field {
	return Field{Number: number, Value: v}
}

type EncodeError struct {
	Message string
}

func (e *EncodeError) Error() string {
	return e.Message
}

type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

// Encode serializes the value into the binary format.
func Encode(value Value) ([]byte, error) {
	buf := []byte{byte(value.Type)}

	switch value.Type {
	case TypeUint64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, value.Uint64)
		buf = append(buf, b...)

	case TypeString:
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(value.String)))
		buf = append(buf, lenBuf...)
		buf = append(buf, value.String...)

	case TypeMessage:
		countBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(countBuf, uint32(len(value.Message)))
		buf = append(buf, countBuf...)

		for _, field := range value.Message {
			numBuf := make([]byte, 4)
			binary.LittleEndian.PutUint32(numBuf, field.Number)
			buf = append(buf, numBuf...)

			fieldData, err := Encode(field.Value)
			if err != nil {
				return nil, err
			}
			buf = append(buf, fieldData...)
		}

	default:
		return nil, &EncodeError{Message: fmt.Sprintf("unknown type: %d", value.Type)}
	}

	return buf, nil
}

// Decode reads one value from data and reports how many bytes it consumed.
func Decode(data []byte) (Value, int, error) {
	if len(data) < 1 {
		return Value{}, 0, &DecodeError{Message: "insufficient data"}
	}

	valueType := TypeID(data[0])
	offset := 1

	switch valueType {
	case TypeUint64:
		if len(data[offset:]) < 8 {
			return Value{}, 0, &DecodeError{Message: "insufficient data for uint64"}
		}
		value := binary.LittleEndian.Uint64(data[offset:])
		return Value{Type: TypeUint64, Uint64: value}, offset + 8, nil

	case TypeString:
		if len(data[offset:]) < 4 {
			return Value{}, 0, &DecodeError{Message: "insufficient data for string length"}
		}
		length := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
		if len(data[offset:]) < length {
			return Value{}, 0, &DecodeError{Message: "insufficient data for string content"}
		}
		value := string(data[offset : offset+length])
		return Value{Type: TypeString, String: value}, offset + length, nil

	case TypeMessage:
		if len(data[offset:]) < 4 {
			return Value{}, 0, &DecodeError{Message: "insufficient data for message field count"}
		}
		fieldCount := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
		fields := make([]Field, 0, fieldCount)

		for i := 0; i < fieldCount; i++ {
			if len(data[offset:]) < 4 {
				return Value{}, 0, &DecodeError{Message: "insufficient data for field number"}
			}
			number := binary.LittleEndian.Uint32(data[offset:])
			offset += 4

			value, n, err := Decode(data[offset:])
			if err != nil {
				return Value{}, 0, err
			}
			fields = append(fields, Field{Number: number, Value: value})
			offset += n
		}
		return Value{Type: TypeMessage, Message: fields}, offset, nil

	default:
		return Value{}, 0, &DecodeError{Message: fmt.Sprintf("unknown type: %d", valueType)}
	}
}
