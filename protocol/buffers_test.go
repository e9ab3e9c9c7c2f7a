package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(6)

	assert.True(t, fifo.IsEmpty())
	assert.Equal(t, 0, fifo.Available())
	assert.Equal(t, 6, fifo.Free())

	assert.Equal(t, 4, fifo.Write([]byte{1, 2, 3, 4}))
	assert.Equal(t, 4, fifo.Available())
	assert.Equal(t, 2, fifo.Free())

	out := make([]byte, 3)
	assert.Equal(t, 3, fifo.Read(out))
	assert.Equal(t, []byte{1, 2, 3}, out)

	// Wraps around the end of the backing slice
	assert.Equal(t, 5, fifo.Write([]byte{5, 6, 7, 8, 9}))
	assert.Equal(t, 0, fifo.Write([]byte{10}))

	out = make([]byte, 10)
	n := fifo.Read(out)
	assert.Equal(t, []byte{4, 5, 6, 7, 8, 9}, out[:n])
	assert.True(t, fifo.IsEmpty())
}

func TestFifoBufferWriteAll(t *testing.T) {
	fifo := NewFifoBuffer(2 * FrameSize)

	require.True(t, fifo.WriteAll([]byte{0, 1, 0}))
	require.True(t, fifo.WriteAll([]byte{0, 2, 1}))
	assert.False(t, fifo.WriteAll([]byte{0, 3, 0}), "a full mailbox must reject the whole frame")
	assert.Equal(t, 2*FrameSize, fifo.Available())

	frame, ok := fifo.ReadFrame()
	require.True(t, ok)
	assert.Equal(t, Frame{Position: 1, Activity: 0}, frame)

	frame, ok = fifo.ReadFrame()
	require.True(t, ok)
	assert.Equal(t, Frame{Position: 2, Activity: 1}, frame)

	_, ok = fifo.ReadFrame()
	assert.False(t, ok)
}

func TestFifoBufferReset(t *testing.T) {
	fifo := NewFifoBuffer(4)
	fifo.Write([]byte{1, 2, 3})
	fifo.Reset()
	assert.True(t, fifo.IsEmpty())
	assert.Equal(t, 4, fifo.Free())
}
