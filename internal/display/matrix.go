package display

import "fmt"

// LEDMatrix is a chain of MAX7219 8x8 modules.
// gobot's gpio.MAX7219Driver satisfies it.
type LEDMatrix interface {
	One(which uint, address byte, data byte) error
	ClearAll() error
}

var glyphs = map[rune][8]byte{
	'H': {0x66, 0x66, 0x66, 0x7E, 0x66, 0x66, 0x66, 0x00},
	'D': {0x78, 0x6C, 0x66, 0x66, 0x66, 0x6C, 0x78, 0x00},
	'G': {0x3C, 0x66, 0xC0, 0xC0, 0xCE, 0x66, 0x3E, 0x00},
}

type Matrix struct {
	dev  LEDMatrix
	text string
}

func NewMatrix(dev LEDMatrix) *Matrix {
	return &Matrix{dev: dev}
}

// Show draws the first character of text on the first module.
// An empty text blanks the chain.
func (m *Matrix) Show(text string) error {
	if err := m.dev.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear matrix: %w", err)
	}
	m.text = ""
	if text == "" {
		return nil
	}

	glyph, ok := glyphs[[]rune(text)[0]]
	if !ok {
		return fmt.Errorf("matrix has no glyph for %q", text)
	}
	for row, data := range glyph {
		// MAX7219 digit registers start at 0x01
		if err := m.dev.One(0, byte(row+1), data); err != nil {
			return fmt.Errorf("failed to write matrix row %d: %w", row, err)
		}
	}
	m.text = text
	return nil
}

// Text returns what the matrix currently shows.
func (m *Matrix) Text() string {
	return m.text
}
