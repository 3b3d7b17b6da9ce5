// Package wire implements the pose stream protocol: a 4-byte big-endian
// length prefix followed by a JSON array of {x, y, z, v} records.
//
// This package is the only place that builds pose frames from bytes or
// turns them back into bytes.
package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/okian/posefight/internal/domain/pose"
)

// HeaderSize is the length of the big-endian size prefix.
const HeaderSize = 4

// record is the on-wire shape of a keypoint. Pointers let Decode tell a
// missing field apart from a zero.
type record struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
	V *float64 `json:"v"`
}

// EncodePayload renders f as the JSON payload. A nil frame becomes "[]".
func EncodePayload(f *pose.Frame) ([]byte, error) {
	kps := f.Keypoints()
	recs := make([]record, len(kps))
	for i := range kps {
		kp := &kps[i]
		recs[i] = record{X: &kp.X, Y: &kp.Y, Z: &kp.Z, V: &kp.Visibility}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode pose frame: %w", err)
	}
	return b, nil
}

// Encode renders f as a complete length-prefixed message.
func Encode(f *pose.Frame) ([]byte, error) {
	payload, err := EncodePayload(f)
	if err != nil {
		return nil, err
	}
	msg := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(msg, uint32(len(payload)))
	copy(msg[HeaderSize:], payload)
	return msg, nil
}

// Decode parses a JSON payload. An empty array yields a nil frame, meaning
// no pose. Malformed input returns an error wrapping ErrDecode.
func Decode(payload []byte) (*pose.Frame, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	var recs []record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after array", ErrDecode)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	kps := make([]pose.Keypoint, len(recs))
	for i, r := range recs {
		if r.X == nil || r.Y == nil || r.Z == nil || r.V == nil {
			return nil, fmt.Errorf("%w: record %d is missing a field", ErrDecode, i)
		}
		kps[i] = pose.Keypoint{X: *r.X, Y: *r.Y, Z: *r.Z, Visibility: *r.V}
	}
	return pose.NewFrame(kps), nil
}
