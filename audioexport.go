package taptempo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

type wavHeader struct {
	Riff          [4]byte
	ChunkSize     uint32
	Wave          [4]byte
	Fmt           [4]byte
	FmtChunkSize  uint32
	WaveFormat    uint16
	NumChannels   uint16
	SampleRate    uint32
	AvgBytesPerS  uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Wav encodes a stereo interleaved buffer as a .wav file, either as 16-bit
// PCM or as 32-bit IEEE float.
func Wav(buffer []float32, sampleRate int, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeWavHeader(buf, len(buffer), sampleRate, pcm16); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	if err := writeSamples(buf, buffer, pcm16); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Raw encodes a buffer as headerless little-endian samples.
func Raw(buffer []float32, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeSamples(buf, buffer, pcm16); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSamples(buf *bytes.Buffer, data []float32, pcm16 bool) error {
	var err error
	if pcm16 {
		int16data := make([]int16, len(data))
		for i, v := range data {
			int16data[i] = int16(max(min(math.Round(float64(v)*math.MaxInt16), math.MaxInt16), -math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, data)
	}
	if err != nil {
		return fmt.Errorf("could not write samples: %w", err)
	}
	return nil
}

// writeWavHeader assumes stereo audio, so bufferLength counts both channels.
// Float files get the extended fmt chunk and a fact chunk.
// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func writeWavHeader(buf *bytes.Buffer, bufferLength int, sampleRate int, pcm16 bool) error {
	const numChannels = 2
	bytesPerSample := 4
	h := wavHeader{
		Riff:        [4]byte{'R', 'I', 'F', 'F'},
		Wave:        [4]byte{'W', 'A', 'V', 'E'},
		Fmt:         [4]byte{'f', 'm', 't', ' '},
		NumChannels: numChannels,
		SampleRate:  uint32(sampleRate),
	}
	if pcm16 {
		bytesPerSample = 2
		h.ChunkSize = uint32(36 + bytesPerSample*bufferLength)
		h.FmtChunkSize = 16
		h.WaveFormat = 1 // PCM
	} else {
		h.ChunkSize = uint32(50 + bytesPerSample*bufferLength)
		h.FmtChunkSize = 18
		h.WaveFormat = 3 // IEEE float
	}
	h.AvgBytesPerS = uint32(sampleRate * numChannels * bytesPerSample)
	h.BlockAlign = uint16(numChannels * bytesPerSample)
	h.BitsPerSample = uint16(8 * bytesPerSample)
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return err
	}
	if !pcm16 {
		binary.Write(buf, binary.LittleEndian, uint16(0)) // size of extension
		buf.WriteString("fact")
		binary.Write(buf, binary.LittleEndian, uint32(4))
		binary.Write(buf, binary.LittleEndian, uint32(bufferLength/numChannels)) // frames
	}
	buf.WriteString("data")
	return binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*bufferLength))
}
