package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblerSingleChunkPassThrough(t *testing.T) {
	a := NewAssembler()
	frames := Encode(Message{Type: 7, Payload: []byte("abc")}, 1)

	msg, err := a.Push(frames[0])
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, uint32(7), msg.Type)
	assert.Equal(t, []byte("abc"), msg.Payload)
}

func TestAssemblerMalformedFrame(t *testing.T) {
	a := NewAssembler()
	_, err := a.Push([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestAssemblerAbandonsStaleGroup(t *testing.T) {
	a := NewAssembler()
	a.groupTimeout = 10 * time.Millisecond

	stale := Encode(Message{Type: 1, Payload: make([]byte, 100)}, 2)
	msg, err := a.Push(stale[0])
	require.NoError(t, err)
	require.Nil(t, msg)

	time.Sleep(20 * time.Millisecond)

	// A fresh group after the timeout completes cleanly; the stale half is
	// dropped.
	fresh := Encode(Message{Type: 1, Payload: []byte("xyzw")}, 2)
	msg, err = a.Push(fresh[0])
	require.NoError(t, err)
	require.Nil(t, msg)
	msg, err = a.Push(fresh[1])
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, []byte("xyzw"), msg.Payload)
}

func TestAssemblerTypeSwitchDropsPending(t *testing.T) {
	a := NewAssembler()

	first := Encode(Message{Type: 1, Payload: make([]byte, 100)}, 2)
	msg, err := a.Push(first[0])
	require.NoError(t, err)
	require.Nil(t, msg)

	// Different type mid-group abandons the pending one.
	second := Encode(Message{Type: 2, Payload: []byte("ab")}, 2)
	msg, err = a.Push(second[0])
	require.NoError(t, err)
	require.Nil(t, msg)
	msg, err = a.Push(second[1])
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, uint32(2), msg.Type)
	assert.Equal(t, []byte("ab"), msg.Payload)
}
