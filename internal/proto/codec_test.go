package proto

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	messages := []Message{
		{Type: PublicMsg, Timestamp: 1712345678901, Sender: "alice", Content: "hi"},
		{Type: PrivateMsg, Timestamp: 42, Sender: "alice", Target: "bob", Content: "psst"},
		{Type: SystemAnnouncement, Timestamp: 1, Sender: ServerName, Content: "Welcome to the chat room!"},
		{Type: UserJoined, Timestamp: 7, Sender: "carol", Content: "carol joined"},
		{Type: UserLeft, Timestamp: 8, Sender: "carol", Content: "carol left"},
		{Type: UserListRequest},
		{Type: UserListResponse, Timestamp: 9, Sender: ServerName, Content: "alice,bob,carol"},
		{Type: CommandResponse, Timestamp: 10, Sender: ServerName, Content: ContentEnterUsername},
		{Type: PublicMsg, Sender: "uni", Content: "héllo 世界"},
		{Type: PublicMsg, Timestamp: -1, Sender: "", Target: "", Content: ""},
	}

	for _, want := range messages {
		t.Run(want.Type.String()+"/"+want.Content, func(t *testing.T) {
			got, err := Decode(Encode(want))
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	full := Encode(Message{Type: PrivateMsg, Timestamp: 99, Sender: "alice", Target: "bob", Content: "hello"})

	// Chopping the frame anywhere short of its full length must fail, never
	// yield a partial message.
	for n := 0; n < len(full); n++ {
		_, err := Decode(full[:n])
		require.Errorf(t, err, "decode of %d/%d bytes should fail", n, len(full))
	}
}

func TestDecodeBadType(t *testing.T) {
	msg := Encode(Message{Type: PublicMsg, Sender: "a", Content: "b"})

	for _, raw := range []int32{-1, 8, 1000} {
		bad := append([]byte(nil), msg...)
		binary.BigEndian.PutUint32(bad[:4], uint32(raw))

		_, err := Decode(bad)
		require.ErrorIs(t, err, ErrBadMessageType)
	}
}

func TestDecodeNegativeStringLength(t *testing.T) {
	msg := Encode(Message{Type: PublicMsg, Sender: "alice", Content: "hi"})

	// The sender length field sits right after type and timestamp.
	binary.BigEndian.PutUint32(msg[12:16], ^uint32(0)) // -1

	_, err := Decode(msg)
	require.ErrorIs(t, err, ErrBadStringLength)
}

func TestDecodeDeclaredLengthBeyondFrame(t *testing.T) {
	msg := Encode(Message{Type: PublicMsg, Sender: "alice", Content: "hi"})
	binary.BigEndian.PutUint32(msg[12:16], 1<<20)

	_, err := Decode(msg)
	require.ErrorIs(t, err, ErrTruncatedFrame)
}

func TestMessageTypeValid(t *testing.T) {
	for typ := PublicMsg; typ <= CommandResponse; typ++ {
		require.True(t, typ.Valid())
	}
	require.False(t, MessageType(-1).Valid())
	require.False(t, MessageType(8).Valid())
}
