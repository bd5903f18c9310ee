package oto

import (
	"encoding/binary"
	"math"
)

// FloatBufferTo16BitLE converts a []float32 buffer to 16-bit little-endian
// integers, appending to byteBuffer. Values outside [-1, 1] are clipped.
func FloatBufferTo16BitLE(buff []float32, byteBuffer []byte) []byte {
	for _, v := range buff {
		var uv int16
		switch {
		case v < -1.0:
			uv = -math.MaxInt16
		case v > 1.0:
			uv = math.MaxInt16
		default:
			uv = int16(v * math.MaxInt16)
		}
		byteBuffer = binary.LittleEndian.AppendUint16(byteBuffer, uint16(uv))
	}
	return byteBuffer
}
