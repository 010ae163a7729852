// Package wavx wraps raw PCM samples in a RIFF/WAVE container. Speech
// synthesis backends return bare PCM; players need the 44-byte header.
package wavx

import (
	"encoding/binary"
	"fmt"
)

// Defaults for synthesized speech: 24kHz mono 16-bit PCM.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	DefaultBitDepth   = 16
)

const headerSize = 44

// Format describes the PCM stream being wrapped.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat returns the speech-synthesis format.
func DefaultFormat() Format {
	return Format{SampleRate: DefaultSampleRate, Channels: DefaultChannels, BitDepth: DefaultBitDepth}
}

// Wrap prepends a WAVE header to pcm. The data is not copied sample by
// sample; only the header is synthesized.
func Wrap(pcm []byte, f Format) ([]byte, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 || f.BitDepth <= 0 {
		return nil, fmt.Errorf("invalid PCM format %+v", f)
	}
	if f.BitDepth%8 != 0 {
		return nil, fmt.Errorf("bit depth %d is not byte aligned", f.BitDepth)
	}

	blockAlign := f.Channels * f.BitDepth / 8
	byteRate := f.SampleRate * blockAlign

	out := make([]byte, headerSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(f.BitDepth))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[headerSize:], pcm)

	return out, nil
}
