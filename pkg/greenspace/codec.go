package greenspace

import (
	"fmt"

	"greenstore/pkg/codec"
)

// MaxEncodedSize bounds a single serialized record.
const MaxEncodedSize = 1024

// Field numbers inside the encoded message.
const (
	fieldID uint32 = iota + 1
	fieldName
	fieldLocation
	fieldDescription
)

// Encode serializes the space into the self-describing binary format.
// Records above MaxEncodedSize are refused.
func Encode(s Space) ([]byte, error) {
	data, err := codec.Encode(codec.Message(
		codec.F(fieldID, codec.Uint64(s.ID)),
		codec.F(fieldName, codec.String(s.Name)),
		codec.F(fieldLocation, codec.String(s.Location)),
		codec.F(fieldDescription, codec.String(s.Description)),
	))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxEncodedSize {
		return nil, fmt.Errorf("encoded space is %d bytes, limit is %d", len(data), MaxEncodedSize)
	}
	return data, nil
}

// Decode is the exact inverse of Encode.
func Decode(data []byte) (Space, error) {
	v, _, err := codec.Decode(data)
	if err != nil {
		return Space{}, err
	}
	if v.Type != codec.TypeMessage {
		return Space{}, fmt.Errorf("expected message value, got type %d", v.Type)
	}

	var s Space
	for _, f := range v.Message {
		switch f.Number {
		case fieldID:
			s.ID = f.Value.Uint64
		case fieldName:
			s.Name = f.Value.String
		case fieldLocation:
			s.Location = f.Value.String
		case fieldDescription:
			s.Description = f.Value.String
		}
	}
	return s, nil
}
