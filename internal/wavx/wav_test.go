package wavx

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	wav, err := Wrap(pcm, DefaultFormat())
	require.NoError(t, err)
	require.Len(t, wav, 44+len(pcm))

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32])) // byte rate
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]))    // block align
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestWrapRejectsBadFormat(t *testing.T) {
	_, err := Wrap(nil, Format{SampleRate: 0, Channels: 1, BitDepth: 16})
	assert.Error(t, err)

	_, err = Wrap(nil, Format{SampleRate: 24000, Channels: 1, BitDepth: 12})
	assert.Error(t, err)
}
