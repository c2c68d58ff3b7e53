package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
}

type fakeSensor struct {
	mu   sync.Mutex
	h    models.Percentage
	dead bool
}

func (s *fakeSensor) Read() (models.Percentage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h, !s.dead
}

func (s *fakeSensor) setDead(dead bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dead = dead
}

func (s *fakeSensor) set(h models.Percentage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = h
}

type setCall struct {
	zone models.ZoneID
	on   bool
}

type fakeRelays struct {
	mu      sync.Mutex
	calls   []setCall
	allOffs int
	on      [models.ZoneCount]bool
	failSet error
}

func (r *fakeRelays) Set(zone models.ZoneID, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSet != nil {
		return r.failSet
	}
	r.calls = append(r.calls, setCall{zone, on})
	r.on[zone] = on
	return nil
}

func (r *fakeRelays) AllOff() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allOffs++
	r.on = [models.ZoneCount]bool{}
	return nil
}

func (r *fakeRelays) isOn(zone models.ZoneID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on[zone]
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []models.IrrigationEvent
}

func (r *fakeRecorder) Record(ev models.IrrigationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type harness struct {
	store  *store.ConfigStore
	clock  *fakeClock
	sensor *fakeSensor
	relays *fakeRelays
	rec    *fakeRecorder
	engine *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s, err := store.New(models.DefaultZones())
	require.NoError(t, err)
	h := &harness{
		store:  s,
		clock:  &fakeClock{},
		sensor: &fakeSensor{},
		relays: &fakeRelays{},
		rec:    &fakeRecorder{},
	}
	h.engine = New(h.store, h.sensor, h.relays, h.clock, h.rec, nil)
	return h
}

func (h *harness) state(zone models.ZoneID) models.RelayState {
	return h.engine.Status().States[zone]
}

func TestNew_BootsIdle(t *testing.T) {
	h := newHarness(t)
	for _, id := range models.AllZones {
		assert.Equal(t, models.StateIdle, h.state(id))
	}
}

func TestTick_ScenarioA_MorningWindowAndHysteresis(t *testing.T) {
	h := newHarness(t)

	h.clock.set(5, 0)
	h.sensor.set(30)
	h.engine.Tick()
	assert.Equal(t, models.StateIdle, h.state(models.ZoneMorning), "window closed before 06:00")
	assert.False(t, h.relays.isOn(models.ZoneMorning))

	h.clock.set(6, 5)
	trs := h.engine.Tick()
	assert.Equal(t, models.StateWatering, h.state(models.ZoneMorning))
	assert.True(t, h.relays.isOn(models.ZoneMorning))
	require.Len(t, trs, 1)
	assert.Equal(t, models.Transition{
		Zone: models.ZoneMorning, From: models.StateIdle, To: models.StateWatering,
		Humidity: 30, SensorOK: true, At: h.clock.Now(),
	}, trs[0])

	h.sensor.set(72)
	h.engine.Tick()
	assert.Equal(t, models.StateIdle, h.state(models.ZoneMorning))
	assert.False(t, h.relays.isOn(models.ZoneMorning))
}

func TestTick_ScenarioB_DisabledZoneStaysOff(t *testing.T) {
	h := newHarness(t)

	for _, tc := range []struct {
		hour     int
		humidity models.Percentage
	}{{3, 0}, {18, 10}, {19, 29}, {23, 100}} {
		h.clock.set(tc.hour, 0)
		h.sensor.set(tc.humidity)
		h.engine.Tick()
		assert.Equal(t, models.StateDisabled, h.state(models.ZoneAfternoon))
		assert.False(t, h.relays.isOn(models.ZoneAfternoon))
	}
	for _, c := range h.relays.calls {
		assert.False(t, c.zone == models.ZoneAfternoon && c.on, "afternoon relay driven on")
	}
}

func TestTick_NoOscillationInsideBand(t *testing.T) {
	for _, start := range []models.RelayState{models.StateIdle, models.StateWatering} {
		t.Run(string(start), func(t *testing.T) {
			h := newHarness(t)
			h.clock.set(12, 0)
			if start == models.StateWatering {
				h.sensor.set(10)
				h.engine.Tick()
				require.Equal(t, models.StateWatering, h.state(models.ZoneMorning))
			}
			calls := len(h.relays.calls)

			for i := 0; i < 200; i++ {
				// strictly between min=40 and max=70
				h.sensor.set(models.Percentage(41 + i%29))
				h.engine.Tick()
				require.Equal(t, start, h.state(models.ZoneMorning), "tick %d", i)
			}
			assert.Len(t, h.relays.calls, calls, "relay driven inside the band")
		})
	}
}

func TestTick_WateringContinuesPastWindowUntilMax(t *testing.T) {
	h := newHarness(t)
	h.clock.set(23, 59)
	h.sensor.set(20)
	h.engine.Tick()
	require.Equal(t, models.StateWatering, h.state(models.ZoneMorning))

	// after midnight the window is closed, but only max humidity stops watering
	h.clock.set(0, 1)
	h.sensor.set(50)
	h.engine.Tick()
	assert.Equal(t, models.StateWatering, h.state(models.ZoneMorning))

	h.sensor.set(70)
	h.engine.Tick()
	assert.Equal(t, models.StateIdle, h.state(models.ZoneMorning))

	// window closed again until 06:00
	h.sensor.set(10)
	h.clock.set(5, 59)
	h.engine.Tick()
	assert.Equal(t, models.StateIdle, h.state(models.ZoneMorning))
}

func TestTick_DisableWhileWateringTurnsRelayOff(t *testing.T) {
	h := newHarness(t)
	h.clock.set(7, 0)
	h.sensor.set(20)
	h.engine.Tick()
	require.True(t, h.relays.isOn(models.ZoneMorning))

	cfg, _ := h.store.Zone(models.ZoneMorning)
	cfg.Enabled = false
	require.NoError(t, h.store.Update(models.ZoneMorning, cfg))

	trs := h.engine.Tick()
	require.Len(t, trs, 1)
	assert.Equal(t, models.StateDisabled, trs[0].To)
	assert.False(t, h.relays.isOn(models.ZoneMorning))
}

func TestTick_ReenabledZoneLeavesDisabled(t *testing.T) {
	h := newHarness(t)
	h.clock.set(19, 0)
	h.sensor.set(50)
	h.engine.Tick()
	require.Equal(t, models.StateDisabled, h.state(models.ZoneAfternoon))

	cfg, _ := h.store.Zone(models.ZoneAfternoon)
	cfg.Enabled = true
	require.NoError(t, h.store.Update(models.ZoneAfternoon, cfg))

	h.engine.Tick()
	assert.Equal(t, models.StateIdle, h.state(models.ZoneAfternoon), "humidity above min")

	// disable again, then re-enable with dry soil inside the window
	cfg.Enabled = false
	require.NoError(t, h.store.Update(models.ZoneAfternoon, cfg))
	h.engine.Tick()
	cfg.Enabled = true
	require.NoError(t, h.store.Update(models.ZoneAfternoon, cfg))
	h.sensor.set(25)
	h.engine.Tick()
	assert.Equal(t, models.StateWatering, h.state(models.ZoneAfternoon))
	assert.True(t, h.relays.isOn(models.ZoneAfternoon))
}

func TestTick_RelayFailureKeepsStateAndRetries(t *testing.T) {
	h := newHarness(t)
	h.clock.set(8, 0)
	h.sensor.set(50)
	h.engine.Tick()

	h.sensor.set(10)
	h.relays.failSet = errors.New("gpio write failed")

	assert.Empty(t, h.engine.Tick())
	assert.Equal(t, models.StateIdle, h.state(models.ZoneMorning))

	h.relays.failSet = nil
	trs := h.engine.Tick()
	require.Len(t, trs, 1)
	assert.Equal(t, models.StateWatering, h.state(models.ZoneMorning))
}

func TestTick_DeadSensorNeverStartsWatering(t *testing.T) {
	h := newHarness(t)
	h.clock.set(7, 0)
	h.sensor.setDead(true)

	for i := 0; i < 100; i++ {
		h.engine.Tick()
		require.Equal(t, models.StateIdle, h.state(models.ZoneMorning), "tick %d", i)
	}
	assert.False(t, h.relays.isOn(models.ZoneMorning))
	assert.False(t, h.engine.Status().SensorOK)
}

func TestTick_SensorLossStopsWatering(t *testing.T) {
	h := newHarness(t)
	h.clock.set(7, 0)
	h.sensor.set(20)
	h.engine.Tick()
	require.True(t, h.relays.isOn(models.ZoneMorning))

	h.sensor.setDead(true)
	trs := h.engine.Tick()
	require.Len(t, trs, 1)
	assert.Equal(t, models.StateIdle, trs[0].To)
	assert.False(t, trs[0].SensorOK)
	assert.False(t, h.relays.isOn(models.ZoneMorning))

	var last models.IrrigationEvent
	if n := len(h.rec.events); n > 0 {
		last = h.rec.events[n-1]
	}
	assert.Equal(t, models.EventWateringStop, last.Type)
	assert.Contains(t, last.Description, "sensor unavailable")

	// reading recovers with dry soil: watering resumes
	h.sensor.setDead(false)
	h.engine.Tick()
	assert.Equal(t, models.StateWatering, h.state(models.ZoneMorning))
}

func TestTick_RecordsEvents(t *testing.T) {
	h := newHarness(t)
	h.clock.set(6, 30)
	h.sensor.set(35)
	h.engine.Tick()
	h.sensor.set(71)
	h.engine.Tick()

	var types []string
	for _, ev := range h.rec.events {
		types = append(types, ev.Type)
		assert.NotEmpty(t, ev.EventID)
	}
	// afternoon boots Idle and is disabled on the first tick
	assert.ElementsMatch(t, []string{models.EventWateringStart, models.EventZoneDisabled, models.EventWateringStop}, types)
	assert.Equal(t, models.Percentage(71), h.engine.Humidity())
}

func TestNextState_Table(t *testing.T) {
	cfg := models.ZoneConfig{Enabled: true, StartTime: models.TimeOfDay{Hour: 6}, MinHumidity: 40, MaxHumidity: 70}
	before := models.TimeOfDay{Hour: 5, Minute: 59}
	at := models.TimeOfDay{Hour: 6}

	tests := []struct {
		name string
		cur  models.RelayState
		cfg  models.ZoneConfig
		h    models.Percentage
		now  models.TimeOfDay
		ok   bool
		want models.RelayState
	}{
		{"idle at min in window", models.StateIdle, cfg, 40, at, true, models.StateWatering},
		{"idle at min before window", models.StateIdle, cfg, 40, before, true, models.StateIdle},
		{"idle above min", models.StateIdle, cfg, 40.1, at, true, models.StateIdle},
		{"watering at max", models.StateWatering, cfg, 70, before, true, models.StateIdle},
		{"watering below max", models.StateWatering, cfg, 69.9, at, true, models.StateWatering},
		{"disabled with dry soil", models.StateDisabled, cfg, 10, at, true, models.StateWatering},
		{"disabled with wet soil", models.StateDisabled, cfg, 60, at, true, models.StateIdle},
		{"zone off", models.StateWatering, models.ZoneConfig{}, 0, at, true, models.StateDisabled},
		{"idle without reading", models.StateIdle, cfg, 0, at, false, models.StateIdle},
		{"watering without reading", models.StateWatering, cfg, 0, at, false, models.StateIdle},
		{"disabled without reading", models.StateDisabled, cfg, 0, at, false, models.StateIdle},
		{"zone off without reading", models.StateIdle, models.ZoneConfig{}, 0, at, false, models.StateDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextState(tt.cur, tt.cfg, tt.h, tt.ok, tt.now))
		})
	}
}

func TestRun_ResetsRelaysAndStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	h.clock.set(9, 0)
	h.sensor.set(10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.engine.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return h.state(models.ZoneMorning) == models.StateWatering
	}, time.Second, 5*time.Millisecond)
	assert.True(t, h.relays.isOn(models.ZoneMorning))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, h.relays.isOn(models.ZoneMorning), "relays must be off after shutdown")
	h.relays.mu.Lock()
	assert.Equal(t, 2, h.relays.allOffs)
	h.relays.mu.Unlock()
	assert.Equal(t, models.StateIdle, h.state(models.ZoneMorning))
}
