package relay

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"furitingoasis/growlight/internal/policy"
)

type fakePin struct {
	writes   []string
	released bool
	err      error
}

func (p *fakePin) On() error {
	p.writes = append(p.writes, "high")
	return p.err
}

func (p *fakePin) Off() error {
	p.writes = append(p.writes, "low")
	return p.err
}

func (p *fakePin) Release() error {
	p.released = true
	return nil
}

func TestController_ActiveLow(t *testing.T) {
	pin := &fakePin{}
	c := NewController(pin, true, zap.NewNop())

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := c.Apply(policy.On); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := c.Apply(policy.Off); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []string{"high", "low", "high"}
	if len(pin.writes) != len(want) {
		t.Fatalf("expected %d writes, got %v", len(want), pin.writes)
	}
	for i := range want {
		if pin.writes[i] != want[i] {
			t.Errorf("write %d: got %s, want %s", i, pin.writes[i], want[i])
		}
	}
	if c.State() != policy.Off {
		t.Errorf("expected last state OFF, got %v", c.State())
	}
}

func TestController_ActiveHigh(t *testing.T) {
	pin := &fakePin{}
	c := NewController(pin, false, zap.NewNop())

	_ = c.Reset()
	_ = c.Apply(policy.On)

	if pin.writes[0] != "low" || pin.writes[1] != "high" {
		t.Errorf("unexpected writes %v", pin.writes)
	}
	if c.State() != policy.On {
		t.Errorf("expected last state ON, got %v", c.State())
	}
}

func TestController_WriteError(t *testing.T) {
	pinErr := errors.New("gpio busy")
	c := NewController(&fakePin{err: pinErr}, true, zap.NewNop())

	if err := c.Apply(policy.On); !errors.Is(err, pinErr) {
		t.Errorf("expected pin error, got %v", err)
	}
	if c.State() != policy.Off {
		t.Errorf("failed write must not change last state")
	}
}

func TestController_Release(t *testing.T) {
	pin := &fakePin{}
	c := NewController(pin, true, zap.NewNop())

	if err := c.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !pin.released {
		t.Error("expected pin to be released")
	}
}
