package proto

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame layout: int32 type | int64 timestamp | 3 x (int32 length + bytes)
// for sender, target and content. All integers big-endian. The format is
// fixed: no version field, no compression.

var (
	// ErrTruncatedFrame means fewer bytes remained than a declared length.
	ErrTruncatedFrame = errors.New("proto: truncated frame")
	// ErrBadMessageType means the type field is outside the enum range.
	ErrBadMessageType = errors.New("proto: message type out of range")
	// ErrBadStringLength means a string length field is negative.
	ErrBadStringLength = errors.New("proto: negative string length")
)

// Encode serializes msg into its wire representation.
func Encode(msg Message) []byte {
	size := 4 + 8 + 3*4 + len(msg.Sender) + len(msg.Target) + len(msg.Content)
	buf := make([]byte, 0, size)

	buf = binary.BigEndian.AppendUint32(buf, uint32(msg.Type))
	buf = binary.BigEndian.AppendUint64(buf, uint64(msg.Timestamp))
	for _, s := range []string{msg.Sender, msg.Target, msg.Content} {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	return buf
}

// Decode parses a wire frame back into a Message. It fails on truncated
// input, negative string lengths, and out-of-range message types; callers
// at the transport layer treat any failure as a peer disconnect.
func Decode(data []byte) (Message, error) {
	var msg Message
	pos := 0

	readInt32 := func() (int32, error) {
		if pos+4 > len(data) {
			return 0, ErrTruncatedFrame
		}
		v := int32(binary.BigEndian.Uint32(data[pos:]))
		pos += 4
		return v, nil
	}
	readString := func() (string, error) {
		n, err := readInt32()
		if err != nil {
			return "", err
		}
		if n < 0 {
			return "", ErrBadStringLength
		}
		if pos+int(n) > len(data) {
			return "", ErrTruncatedFrame
		}
		s := string(data[pos : pos+int(n)])
		pos += int(n)
		return s, nil
	}

	rawType, err := readInt32()
	if err != nil {
		return msg, err
	}
	if !MessageType(rawType).Valid() {
		return msg, fmt.Errorf("%w: %d", ErrBadMessageType, rawType)
	}
	msg.Type = MessageType(rawType)

	if pos+8 > len(data) {
		return msg, ErrTruncatedFrame
	}
	msg.Timestamp = int64(binary.BigEndian.Uint64(data[pos:]))
	pos += 8

	if msg.Sender, err = readString(); err != nil {
		return msg, err
	}
	if msg.Target, err = readString(); err != nil {
		return msg, err
	}
	if msg.Content, err = readString(); err != nil {
		return msg, err
	}
	return msg, nil
}
