package relay

import (
	"errors"
	"testing"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"irrigation_controller/internal/models"
)

type write struct {
	zone models.ZoneID
	on   bool
}

type countingSwitch struct {
	writes []write
	err    error
}

func (s *countingSwitch) Write(zone models.ZoneID, on bool) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, write{zone, on})
	return nil
}

func TestBank_SetIsIdempotent(t *testing.T) {
	sw := &countingSwitch{}
	b := NewBank(sw, nil)

	for i := 0; i < 3; i++ {
		if err := b.Set(models.ZoneMorning, true); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if len(sw.writes) != 1 {
		t.Fatalf("want 1 observable transition, got %d: %+v", len(sw.writes), sw.writes)
	}
	if !b.State(models.ZoneMorning) || b.State(models.ZoneAfternoon) {
		t.Fatalf("unexpected states")
	}

	_ = b.Set(models.ZoneMorning, false)
	_ = b.Set(models.ZoneMorning, false)
	if len(sw.writes) != 2 || sw.writes[1] != (write{models.ZoneMorning, false}) {
		t.Fatalf("unexpected writes: %+v", sw.writes)
	}
}

func TestBank_FirstSetAlwaysWrites(t *testing.T) {
	sw := &countingSwitch{}
	b := NewBank(sw, nil)

	// level at boot is unknown, so even "off" must reach the hardware once
	_ = b.Set(models.ZoneAfternoon, false)
	if len(sw.writes) != 1 {
		t.Fatalf("want 1 write, got %d", len(sw.writes))
	}
}

func TestBank_FailedWriteIsRetried(t *testing.T) {
	sw := &countingSwitch{err: errors.New("gpio busy")}
	b := NewBank(sw, nil)

	if err := b.Set(models.ZoneMorning, true); err == nil {
		t.Fatalf("expected error")
	}
	if b.State(models.ZoneMorning) {
		t.Fatalf("failed write must not flip state")
	}

	sw.err = nil
	if err := b.Set(models.ZoneMorning, true); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(sw.writes) != 1 || !b.State(models.ZoneMorning) {
		t.Fatalf("retry did not reach the switch: %+v", sw.writes)
	}
}

func TestBank_AllOffForcesWrites(t *testing.T) {
	sw := &countingSwitch{}
	b := NewBank(sw, nil)
	_ = b.Set(models.ZoneMorning, false)

	if err := b.AllOff(); err != nil {
		t.Fatalf("AllOff: %v", err)
	}
	if len(sw.writes) != 3 {
		t.Fatalf("want 3 writes (1 set + 2 forced), got %d", len(sw.writes))
	}
}

func TestBank_UnknownZone(t *testing.T) {
	b := NewBank(&countingSwitch{}, nil)
	if err := b.Set(models.ZoneID(5), true); !errors.Is(err, models.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

type fakePin struct {
	writes []rpio.State
}

func (p *fakePin) Write(state rpio.State) { p.writes = append(p.writes, state) }

func TestRPIOSwitch_Write(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		on        bool
		want      rpio.State
	}{
		{name: "active-high on", on: true, want: rpio.High},
		{name: "active-high off", on: false, want: rpio.Low},
		{name: "active-low on", activeLow: true, on: true, want: rpio.Low},
		{name: "active-low off", activeLow: true, on: false, want: rpio.High},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			morning, afternoon := &fakePin{}, &fakePin{}
			sw := newRPIOSwitch([models.ZoneCount]outputPin{morning, afternoon}, tt.activeLow)

			if err := sw.Write(models.ZoneAfternoon, tt.on); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if len(morning.writes) != 0 {
				t.Fatalf("morning pin touched: %v", morning.writes)
			}
			if len(afternoon.writes) != 1 || afternoon.writes[0] != tt.want {
				t.Fatalf("afternoon writes = %v, want [%v]", afternoon.writes, tt.want)
			}
		})
	}
}

func TestRPIOSwitch_UnknownZone(t *testing.T) {
	sw := newRPIOSwitch([models.ZoneCount]outputPin{&fakePin{}, &fakePin{}}, false)
	if err := sw.Write(models.ZoneID(7), true); !errors.Is(err, models.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestMirror_WritesShadowAfterPrimary(t *testing.T) {
	primary, shadow := &countingSwitch{}, &countingSwitch{}
	m := Mirror{Primary: primary, Shadow: shadow}

	if err := m.Write(models.ZoneMorning, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(primary.writes) != 1 || len(shadow.writes) != 1 {
		t.Fatalf("primary=%v shadow=%v", primary.writes, shadow.writes)
	}

	primary.err = errors.New("gpio busy")
	if err := m.Write(models.ZoneMorning, false); err == nil {
		t.Fatalf("expected primary error")
	}
	if len(shadow.writes) != 1 {
		t.Fatalf("shadow written after primary failure: %v", shadow.writes)
	}
}
