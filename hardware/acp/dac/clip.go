// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package dac

var softClip [65536]int16

// the knee of the curve. below the knee the signal passes through unchanged.
// the full swing of the output register at unity gain is below the knee, only
// gain above unity is compressed
const knee = 127 << 8

// generate the soft clip curve
func init() {
	for i := -32768; i <= 32767; i++ {
		x := int32(i)

		abs := x
		if abs < 0 {
			abs = -abs
		}

		y := x
		if abs > knee {
			// compress the region above the knee into what remains of the
			// 16bit range
			over := abs - knee
			room := int32(32767 - knee)
			c := knee + (over*room)/(over+room)
			if x < 0 {
				y = -c
			} else {
				y = c
			}
		}

		softClip[uint16(i)] = int16(y)
	}
}

// Clip the value so that it doesn't exceed 16bit range. Values near the
// limit are compressed rather than cut off.
func Clip(x int32) int16 {
	x = max(min(x, 32767), -32768)
	return softClip[uint16(x)]
}
