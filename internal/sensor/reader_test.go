package sensor

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"irrigation_controller/internal/models"
)

type fakeADC struct {
	raw int
	err error
}

func (f *fakeADC) Sample() (int, error) { return f.raw, f.err }

func TestReader_ConvertsAndClamps(t *testing.T) {
	tests := []struct {
		name   string
		dry    int
		wet    int
		raw    int
		expect models.Percentage
	}{
		{name: "dry end", dry: 3000, wet: 1200, raw: 3000, expect: 0},
		{name: "wet end", dry: 3000, wet: 1200, raw: 1200, expect: 100},
		{name: "midpoint", dry: 3000, wet: 1200, raw: 2100, expect: 50},
		{name: "rounded to tenths", dry: 3000, wet: 1200, raw: 2999, expect: 0.1},
		{name: "drier than calibration", dry: 3000, wet: 1200, raw: 4095, expect: 0},
		{name: "wetter than calibration", dry: 3000, wet: 1200, raw: 0, expect: 100},
		{name: "rising orientation", dry: 0, wet: 1000, raw: 250, expect: 25},
		{name: "rising orientation overflow", dry: 0, wet: 1000, raw: 5000, expect: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(&fakeADC{raw: tt.raw}, tt.dry, tt.wet, nil)
			if got, ok := r.Read(); !ok || got != tt.expect {
				t.Fatalf("Read() = %v, %v, want %v", got, ok, tt.expect)
			}
		})
	}
}

func TestReader_FallsBackToLastGoodReading(t *testing.T) {
	adc := &fakeADC{err: errors.New("i2c nack")}
	r := NewReader(adc, 3000, 1200, nil)

	if _, ok := r.Read(); ok {
		t.Fatalf("reading before any good sample must be invalid")
	}
	if _, ok := r.Last(); ok {
		t.Fatalf("Last() must report no reading yet")
	}

	adc.err, adc.raw = nil, 2100
	if got, ok := r.Read(); !ok || got != 50 {
		t.Fatalf("want 50, got %v (ok=%v)", got, ok)
	}

	adc.err = errors.New("timeout")
	for i := 1; i < StaleAfter; i++ {
		if got, ok := r.Read(); !ok || got != 50 {
			t.Fatalf("failure %d: want fallback 50, got %v (ok=%v)", i, got, ok)
		}
	}
	if got, ok := r.Read(); ok || got != 50 {
		t.Fatalf("after %d failures want stale 50, got %v (ok=%v)", StaleAfter, got, ok)
	}
	if last, ok := r.Last(); !ok || last != 50 {
		t.Fatalf("Last() = %v, %v", last, ok)
	}

	adc.err = nil
	if _, ok := r.Read(); !ok {
		t.Fatalf("a good sample must make the reading valid again")
	}
}

func TestReader_DeadSensorNeverValid(t *testing.T) {
	r := NewReader(&fakeADC{err: errors.New("no device")}, 3000, 1200, nil)
	for i := 0; i < 10; i++ {
		if got, ok := r.Read(); ok || got != 0 {
			t.Fatalf("read %d: got %v (ok=%v)", i, got, ok)
		}
	}
}

func TestNewReader_PanicsOnDegenerateCalibration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewReader(&fakeADC{}, 100, 100, nil)
}

func TestI2CADC_Sample(t *testing.T) {
	bus := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: 0x36, W: []byte{0x20}, R: []byte{0xd0, 0x07}},
	}}
	adc := NewI2CADC(bus, 0x36, 0x20)

	got, err := adc.Sample()
	if err != nil || got != 2000 {
		t.Fatalf("Sample() = %d, %v", got, err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("unconsumed bus ops: %v", err)
	}
}

func TestI2CADC_SampleError(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	if _, err := NewI2CADC(bus, 0x36, 0x20).Sample(); err == nil {
		t.Fatalf("expected bus error")
	}
}
