package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/okian/posefight/internal/domain/pose"
)

// WriteFrame encodes f and writes prefix and payload in one call.
func WriteFrame(w io.Writer, f *pose.Frame) error {
	msg, err := Encode(f)
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write pose frame: %w", err)
	}
	return nil
}

// ReadPayload reads one length-prefixed payload from r.
//
// A peer that closes mid-message surfaces as io.EOF (nothing read) or
// io.ErrUnexpectedEOF (short read); both mean the stream is over. A length
// above limit returns ErrPayloadTooLarge without reading the body.
func ReadPayload(r io.Reader, limit uint32) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, limit)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}
