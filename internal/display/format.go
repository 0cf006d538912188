// Package display renders readings to the character LCD, the four digit
// segment display and the LED matrix. The drivers are write-only sinks.
package display

import (
	"fmt"
	"math"
)

// Frame is what one tick shows on the displays.
type Frame struct {
	TemperatureC float64
	HumidityPct  float64
	Code         string
}

// Round rounds half to even, matching the rounding of the logged values.
func Round(v float64) int {
	return int(math.RoundToEven(v))
}

// LCDLines returns the two LCD lines for a frame.
func LCDLines(f Frame) (string, string) {
	return fmt.Sprintf("Temp: %dC", Round(f.TemperatureC)), fmt.Sprintf("rH: %d%%", Round(f.HumidityPct))
}

// Digits returns the tens and ones digit of v as ASCII characters.
// Values that do not fit in two digits render as "--".
func Digits(v int) [2]byte {
	if v < 0 || v > 99 {
		return [2]byte{'-', '-'}
	}
	return [2]byte{byte('0' + v/10), byte('0' + v%10)}
}

// SegmentText returns the four characters for the segment display:
// temperature in positions 0-1, humidity in 2-3.
func SegmentText(f Frame) [4]byte {
	t := Digits(Round(f.TemperatureC))
	h := Digits(Round(f.HumidityPct))
	return [4]byte{t[0], t[1], h[0], h[1]}
}
