package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnBuffer_WriteReadRoundtrip(t *testing.T) {
	buf := newConnBuffer(16)

	slice, err := buf.WriteSlice()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(slice), 5)

	n := copy(slice, []byte("hello"))
	buf.Commit(n)

	assert.Equal(t, []byte("hello"), buf.Bytes())
}

func TestConnBuffer_ConsumeAdvancesReadCursor(t *testing.T) {
	buf := newConnBuffer(16)

	slice, err := buf.WriteSlice()
	require.NoError(t, err)
	n := copy(slice, []byte("abcdef"))
	buf.Commit(n)

	buf.Consume(3)
	assert.Equal(t, []byte("def"), buf.Bytes())
}

func TestConnBuffer_WriteSliceCompactsConsumedBytes(t *testing.T) {
	buf := newConnBuffer(8)

	slice, err := buf.WriteSlice()
	require.NoError(t, err)
	n := copy(slice, []byte("abcdef"))
	buf.Commit(n)
	buf.Consume(4) // unread: "ef"

	// Before compaction the tail only has 2 free bytes (8 - 6 written);
	// after compaction it should have 6 (8 - 2 unread).
	slice, err = buf.WriteSlice()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(slice), 6)
	assert.Equal(t, []byte("ef"), buf.Bytes())
}

func TestConnBuffer_OverflowWhenUnreadFillsCapacity(t *testing.T) {
	buf := newConnBuffer(8)

	slice, err := buf.WriteSlice()
	require.NoError(t, err)
	require.Len(t, slice, 8)
	buf.Commit(8) // fill completely, nothing consumed

	_, err = buf.WriteSlice()
	assert.ErrorIs(t, err, ErrReceiveOverflow)
}

func TestConnBuffer_NoOverflowAfterConsumingEnoughToCompact(t *testing.T) {
	buf := newConnBuffer(8)

	slice, _ := buf.WriteSlice()
	buf.Commit(len(slice)) // full
	buf.Consume(8)         // fully drained

	slice, err := buf.WriteSlice()
	require.NoError(t, err)
	assert.Len(t, slice, 8)
}
