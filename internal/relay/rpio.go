package relay

import (
	"fmt"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"irrigation_controller/internal/models"
)

type outputPin interface {
	Write(state rpio.State)
}

// RPIOSwitch drives one Raspberry Pi GPIO pin per zone through the
// memory-mapped GPIO registers.
type RPIOSwitch struct {
	pins      [models.ZoneCount]outputPin
	activeLow bool
}

// OpenRPIO maps the GPIO registers and sets the given BCM pins as outputs.
// Call Close on shutdown to unmap them.
func OpenRPIO(pins [models.ZoneCount]int, activeLow bool) (*RPIOSwitch, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	var out [models.ZoneCount]outputPin
	for _, id := range models.AllZones {
		p := rpio.Pin(pins[id])
		p.Output()
		out[id] = p
	}
	return newRPIOSwitch(out, activeLow), nil
}

func newRPIOSwitch(pins [models.ZoneCount]outputPin, activeLow bool) *RPIOSwitch {
	return &RPIOSwitch{pins: pins, activeLow: activeLow}
}

func (s *RPIOSwitch) Write(zone models.ZoneID, on bool) error {
	if !zone.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownZone, int(zone))
	}
	state := rpio.Low
	if on != s.activeLow {
		state = rpio.High
	}
	s.pins[zone].Write(state)
	return nil
}

func (s *RPIOSwitch) Close() error {
	return rpio.Close()
}

// Mirror writes to Primary and, once that succeeds, to Shadow. It keeps a
// soil model in step with real valves.
type Mirror struct {
	Primary Switch
	Shadow  Switch
}

func (m Mirror) Write(zone models.ZoneID, on bool) error {
	if err := m.Primary.Write(zone, on); err != nil {
		return err
	}
	return m.Shadow.Write(zone, on)
}
