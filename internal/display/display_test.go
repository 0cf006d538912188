package display

import (
	"errors"
	"testing"
)

type fakeLCD struct {
	text      string
	rgb       [3]int
	clears    int
	writeErr  error
	backlight bool
}

func (l *fakeLCD) Clear() error {
	l.clears++
	l.text = ""
	return nil
}

func (l *fakeLCD) Write(message string) error {
	if l.writeErr != nil {
		return l.writeErr
	}
	l.text += message
	return nil
}

func (l *fakeLCD) SetRGB(r, g, b int) error {
	l.rgb = [3]int{r, g, b}
	l.backlight = r != 0 || g != 0 || b != 0
	return nil
}

type fakeRegisters struct {
	commands []byte
	ram      []byte
}

func (f *fakeRegisters) WriteByte(val byte) error {
	f.commands = append(f.commands, val)
	return nil
}

func (f *fakeRegisters) WriteBlockData(reg uint8, b []byte) error {
	f.ram = append([]byte(nil), b...)
	return nil
}

type fakeMatrix struct {
	rows    map[byte]byte
	cleared int
	err     error
}

func (m *fakeMatrix) One(which uint, address byte, data byte) error {
	if m.err != nil {
		return m.err
	}
	if m.rows == nil {
		m.rows = map[byte]byte{}
	}
	m.rows[address] = data
	return nil
}

func (m *fakeMatrix) ClearAll() error {
	m.cleared++
	m.rows = nil
	return nil
}

func TestDigits(t *testing.T) {
	tests := []struct {
		v    int
		want string
	}{
		{v: 7, want: "07"},
		{v: 23, want: "23"},
		{v: 0, want: "00"},
		{v: 99, want: "99"},
		{v: 100, want: "--"},
		{v: -3, want: "--"},
	}

	for _, tt := range tests {
		got := Digits(tt.v)
		if string(got[:]) != tt.want {
			t.Errorf("Digits(%d) = %q, want %q", tt.v, string(got[:]), tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{v: 22.4, want: 22},
		{v: 22.6, want: 23},
		{v: 22.5, want: 22},
		{v: 23.5, want: 24},
	}

	for _, tt := range tests {
		if got := Round(tt.v); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestSegmentText(t *testing.T) {
	got := SegmentText(Frame{TemperatureC: 7.2, HumidityPct: 23})
	if string(got[:]) != "0723" {
		t.Errorf("SegmentText = %q, want %q", string(got[:]), "0723")
	}
}

func TestLCDLines(t *testing.T) {
	l1, l2 := LCDLines(Frame{TemperatureC: 21.7, HumidityPct: 54.2})
	if l1 != "Temp: 22C" {
		t.Errorf("line 1 = %q", l1)
	}
	if l2 != "rH: 54%" {
		t.Errorf("line 2 = %q", l2)
	}
}

func TestSegment_StartAndShow(t *testing.T) {
	regs := &fakeRegisters{}
	s := NewSegment(regs)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(regs.commands) != 3 || regs.commands[0] != 0x21 || regs.commands[1] != 0x81 || regs.commands[2] != 0xEF {
		t.Errorf("unexpected init commands % x", regs.commands)
	}

	if err := s.Show(Frame{TemperatureC: 23, HumidityPct: 7}); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	want := []byte{0x5B, 0, 0x4F, 0, 0, 0, 0x3F, 0, 0x07, 0}
	if len(regs.ram) != len(want) {
		t.Fatalf("expected %d bytes of display RAM, got %d", len(want), len(regs.ram))
	}
	for i := range want {
		if regs.ram[i] != want[i] {
			t.Errorf("ram[%d] = 0x%02x, want 0x%02x", i, regs.ram[i], want[i])
		}
	}
	if got := s.Chars(); string(got[:]) != "2307" {
		t.Errorf("Chars() = %q", string(got[:]))
	}

	if err := s.Blank(); err != nil {
		t.Fatalf("Blank failed: %v", err)
	}
	for i, b := range regs.ram {
		if b != 0 {
			t.Errorf("ram[%d] = 0x%02x after blank", i, b)
		}
	}
}

func TestMatrix_Show(t *testing.T) {
	dev := &fakeMatrix{}
	m := NewMatrix(dev)

	if err := m.Show("H"); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if m.Text() != "H" {
		t.Errorf("Text() = %q", m.Text())
	}
	if len(dev.rows) != 8 {
		t.Errorf("expected 8 rows written, got %d", len(dev.rows))
	}
	if dev.rows[4] != 0x7E {
		t.Errorf("row 4 = 0x%02x, want crossbar 0x7E", dev.rows[4])
	}

	if err := m.Show(""); err != nil {
		t.Fatalf("blank failed: %v", err)
	}
	if m.Text() != "" || dev.rows != nil {
		t.Errorf("matrix not blank: %q %v", m.Text(), dev.rows)
	}
}

func TestMatrix_UnknownGlyph(t *testing.T) {
	m := NewMatrix(&fakeMatrix{})
	if err := m.Show("X"); err == nil {
		t.Error("expected error for unknown glyph")
	}
}

func TestPanel_RenderAndBlank(t *testing.T) {
	lcd := &fakeLCD{}
	regs := &fakeRegisters{}
	mat := &fakeMatrix{}
	p := &Panel{LCD: NewLCD(lcd), Segment: NewSegment(regs), Matrix: NewMatrix(mat)}

	if err := p.Render(Frame{TemperatureC: 19.6, HumidityPct: 61.2, Code: "D"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if lcd.text != "Temp: 20C\nrH: 61%" {
		t.Errorf("lcd shows %q", lcd.text)
	}
	if p.Matrix.Text() != "D" {
		t.Errorf("matrix shows %q", p.Matrix.Text())
	}

	if err := p.Blank(); err != nil {
		t.Fatalf("Blank failed: %v", err)
	}
	if lcd.text != "" || lcd.backlight {
		t.Errorf("lcd not off: %q backlight=%v", lcd.text, lcd.backlight)
	}
	if p.Matrix.Text() != "" {
		t.Errorf("matrix shows %q after blank", p.Matrix.Text())
	}
	if got := p.Segment.Chars(); string(got[:]) != "    " {
		t.Errorf("segment shows %q after blank", string(got[:]))
	}
}

func TestPanel_BlankAttemptsEveryDisplay(t *testing.T) {
	lcdErr := errors.New("lcd nack")
	lcd := &fakeLCD{}
	mat := &fakeMatrix{}
	p := &Panel{LCD: NewLCD(&failingClearLCD{fakeLCD: lcd, err: lcdErr}), Segment: NewSegment(&fakeRegisters{}), Matrix: NewMatrix(mat)}

	err := p.Blank()
	if !errors.Is(err, lcdErr) {
		t.Errorf("expected lcd error, got %v", err)
	}
	if mat.cleared != 1 {
		t.Errorf("matrix should still be blanked, cleared=%d", mat.cleared)
	}
}

type failingClearLCD struct {
	*fakeLCD
	err error
}

func (l *failingClearLCD) Clear() error {
	return l.err
}
