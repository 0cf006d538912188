package display

import (
	"fmt"

	"go.uber.org/multierr"
)

// Panel groups the three displays of the board.
type Panel struct {
	LCD     *LCD
	Segment *Segment
	Matrix  *Matrix
}

// Render shows a frame on all displays.
func (p *Panel) Render(f Frame) error {
	if err := p.Segment.Show(f); err != nil {
		return err
	}
	if err := p.LCD.Show(f); err != nil {
		return err
	}
	if err := p.Matrix.Show(f.Code); err != nil {
		return fmt.Errorf("failed to show light assessment: %w", err)
	}
	return nil
}

// Blank switches off the LCD and empties the matrix and segment display.
// Every display is attempted even when an earlier one fails.
func (p *Panel) Blank() error {
	return multierr.Combine(
		p.LCD.Off(),
		p.Matrix.Show(""),
		p.Segment.Blank(),
	)
}
