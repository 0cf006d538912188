package display

import "fmt"

// CharacterLCD is a two line character display with an RGB backlight.
// gobot's i2c.JHD1313M1Driver satisfies it.
type CharacterLCD interface {
	Clear() error
	Write(message string) error
	SetRGB(r, g, b int) error
}

type LCD struct {
	dev  CharacterLCD
	text string
}

func NewLCD(dev CharacterLCD) *LCD {
	return &LCD{dev: dev}
}

// Show replaces the display content with the frame's temperature and humidity.
func (l *LCD) Show(f Frame) error {
	line1, line2 := LCDLines(f)
	text := line1 + "\n" + line2
	if err := l.dev.Clear(); err != nil {
		return fmt.Errorf("failed to clear lcd: %w", err)
	}
	if err := l.dev.Write(text); err != nil {
		return fmt.Errorf("failed to write lcd: %w", err)
	}
	l.text = text
	return nil
}

// Off clears the display and switches the backlight off.
func (l *LCD) Off() error {
	if err := l.dev.Clear(); err != nil {
		return fmt.Errorf("failed to clear lcd: %w", err)
	}
	l.text = ""
	if err := l.dev.SetRGB(0, 0, 0); err != nil {
		return fmt.Errorf("failed to switch off lcd backlight: %w", err)
	}
	return nil
}

// Text returns the last text written.
func (l *LCD) Text() string {
	return l.text
}
