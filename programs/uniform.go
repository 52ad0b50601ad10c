package programs

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// FrameParametersSize is the size of FrameParameters in bytes as seen by the GPU.
const FrameParametersSize = 3 * 4 * 4

// FrameParameters is the per-frame block shared by every kernel invocation.
//
// The view transform is stored row-major, one row per Vec4 with the last
// component as padding. This is the std140 layout of a row_major mat3.
type FrameParameters struct {
	Rows [3]mgl32.Vec4
}

// Pack converts a view transform into its published layout.
func Pack(transform mgl64.Mat3) FrameParameters {
	var p FrameParameters
	for i := range p.Rows {
		row := transform.Row(i)
		p.Rows[i] = mgl32.Vec4{float32(row[0]), float32(row[1]), float32(row[2]), 0}
	}
	return p
}

// Transform returns the transform held by p, at float32 precision.
func (p FrameParameters) Transform() mgl64.Mat3 {
	var rows [3]mgl64.Vec3
	for i, r := range p.Rows {
		rows[i] = mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}
	}
	return mgl64.Mat3FromRows(rows[0], rows[1], rows[2])
}

// Bytes returns p in little-endian byte order, ready for upload.
func (p FrameParameters) Bytes() []byte {
	b := make([]byte, 0, FrameParametersSize)
	for _, row := range p.Rows {
		for _, v := range row {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		}
	}
	return b
}
