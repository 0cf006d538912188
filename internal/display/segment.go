package display

import "fmt"

// SegmentAddress is the default HT16K33 backpack address.
const SegmentAddress = 0x70

const (
	ht16k33OscillatorOn = 0x21
	ht16k33DisplayOn    = 0x81
	ht16k33Brightness   = 0xE0
)

// RegisterWriter is the part of an i2c connection the HT16K33 needs.
// gobot's i2c.Connection satisfies it.
type RegisterWriter interface {
	WriteByte(val byte) error
	WriteBlockData(reg uint8, b []byte) error
}

var segmentFont = map[byte]byte{
	'0': 0x3F, '1': 0x06, '2': 0x5B, '3': 0x4F, '4': 0x66,
	'5': 0x6D, '6': 0x7D, '7': 0x07, '8': 0x7F, '9': 0x6F,
	'-': 0x40, ' ': 0x00,
}

// Segment drives a four digit seven segment display behind an HT16K33.
type Segment struct {
	bus   RegisterWriter
	chars [4]byte
}

func NewSegment(bus RegisterWriter) *Segment {
	return &Segment{bus: bus, chars: [4]byte{' ', ' ', ' ', ' '}}
}

// Start wakes the controller, switches the display on at full brightness and blanks it.
func (s *Segment) Start() error {
	for _, cmd := range []byte{ht16k33OscillatorOn, ht16k33DisplayOn, ht16k33Brightness | 0x0F} {
		if err := s.bus.WriteByte(cmd); err != nil {
			return fmt.Errorf("failed to initialise segment display: %w", err)
		}
	}
	return s.Blank()
}

// Show writes the four characters, see SegmentText.
func (s *Segment) Show(f Frame) error {
	return s.write(SegmentText(f))
}

func (s *Segment) Blank() error {
	return s.write([4]byte{' ', ' ', ' ', ' '})
}

// Chars returns the characters last written.
func (s *Segment) Chars() [4]byte {
	return s.chars
}

func (s *Segment) write(chars [4]byte) error {
	// display RAM: digits 0,1 at 0x00,0x02, colon at 0x04, digits 2,3 at 0x06,0x08
	buf := make([]byte, 10)
	for i, c := range chars {
		pattern, ok := segmentFont[c]
		if !ok {
			return fmt.Errorf("segment display cannot show %q", c)
		}
		pos := i * 2
		if i >= 2 {
			pos += 2
		}
		buf[pos] = pattern
	}
	if err := s.bus.WriteBlockData(0x00, buf); err != nil {
		return fmt.Errorf("failed to write segment display: %w", err)
	}
	s.chars = chars
	return nil
}
