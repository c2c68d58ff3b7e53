// Package sensor turns raw soil-moisture ADC samples into humidity percentages.
package sensor

import (
	"math"
	"sync"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
)

// StaleAfter is the number of consecutive failed samples after which the
// last good reading is no longer trusted.
const StaleAfter = 3

// ADC returns one raw sample. Implementations must return promptly.
type ADC interface {
	Sample() (int, error)
}

// Reader converts raw samples using a two-point calibration: rawDry maps
// to 0% and rawWet to 100%. Either orientation works; capacitive probes
// usually read lower when wet.
type Reader struct {
	adc    ADC
	rawDry int
	rawWet int
	log    *logger.Logger

	mu       sync.Mutex
	last     models.Percentage
	hasLast  bool
	failures int
}

// NewReader panics if rawDry == rawWet since no conversion is possible.
func NewReader(adc ADC, rawDry, rawWet int, log *logger.Logger) *Reader {
	if rawDry == rawWet {
		panic("sensor: rawDry and rawWet must differ")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Reader{adc: adc, rawDry: rawDry, rawWet: rawWet, log: log}
}

// Read samples the ADC. Out-of-range samples are clamped. A failed sample
// returns the previous reading, which stays valid until StaleAfter
// consecutive failures. Before the first good sample ok is false.
func (r *Reader) Read() (models.Percentage, bool) {
	raw, err := r.adc.Sample()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.failures++
		ok := r.hasLast && r.failures < StaleAfter
		r.log.Warnw("sensor_sample_failed", "err", err,
			"fallback", float64(r.last), "failures", r.failures, "valid", ok)
		return r.last, ok
	}

	pct := r.convert(raw)
	if !pct.Valid() {
		r.log.Debugw("sensor_sample_clamped", "raw", raw, "pct", float64(pct))
		pct = pct.Clamp()
	}
	r.last, r.hasLast, r.failures = pct, true, 0
	return pct, true
}

// Last returns the most recent good reading without sampling.
func (r *Reader) Last() (models.Percentage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hasLast
}

func (r *Reader) convert(raw int) models.Percentage {
	span := float64(r.rawWet - r.rawDry)
	pct := float64(raw-r.rawDry) / span * 100
	return models.Percentage(math.Round(pct*10) / 10)
}
