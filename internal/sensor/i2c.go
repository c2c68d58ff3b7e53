package sensor

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2CADC reads a 16-bit little-endian sample from one register of an I2C
// soil-moisture ADC.
type I2CADC struct {
	dev      *i2c.Dev
	register byte
}

func NewI2CADC(bus i2c.Bus, addr uint16, register byte) *I2CADC {
	return &I2CADC{dev: &i2c.Dev{Bus: bus, Addr: addr}, register: register}
}

func (a *I2CADC) Sample() (int, error) {
	read := make([]byte, 2)
	if err := a.dev.Tx([]byte{a.register}, read); err != nil {
		return 0, fmt.Errorf("read adc %s register %#x: %w", a.dev, a.register, err)
	}
	return int(binary.LittleEndian.Uint16(read)), nil
}

// OpenI2CBus loads the host drivers and opens the named bus. An empty name
// opens the first bus found.
func OpenI2CBus(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return bus, nil
}
