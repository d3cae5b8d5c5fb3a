// SPDX-License-Identifier: EPL-2.0

package utils

// FullScale is the largest positive value of a signed bitDepth sample.
func FullScale(bitDepth int) int {
	return 1<<(bitDepth-1) - 1
}

// Float32ToPCM clamps x to [-1, 1] and scales it to a signed bitDepth
// integer. -1 maps to -FullScale, keeping the scale symmetric.
func Float32ToPCM(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int(float64(x) * float64(FullScale(bitDepth)))
}

// Float32ToInt16 is Float32ToPCM for 16-bit output.
func Float32ToInt16(x float32) int16 {
	return int16(Float32ToPCM(x, 16))
}

// PCMToFloat32 scales a signed bitDepth sample to [-1, 1).
func PCMToFloat32(v, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
