package debounce

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joypanel/panel"
)

// scriptedLines answers IsAsserted from a per-line script; once a script
// runs out the last value repeats.
type scriptedLines struct {
	script [panel.NumLines][]bool
	level  [panel.NumLines]bool
	reads  [panel.NumLines]int
	err    error
}

func (s *scriptedLines) IsAsserted(l panel.Line) (bool, error) {
	s.reads[l]++
	if s.err != nil {
		return false, s.err
	}
	if len(s.script[l]) > 0 {
		s.level[l] = s.script[l][0]
		s.script[l] = s.script[l][1:]
	}
	return s.level[l], nil
}

type harness struct {
	lines   *scriptedLines
	slept   []time.Duration
	presses []panel.Line
	det     *Detector
}

func newHarness(cfg Config) *harness {
	h := &harness{lines: &scriptedLines{}}
	h.det = New(cfg, h.lines,
		func(d time.Duration) { h.slept = append(h.slept, d) },
		func(l panel.Line) { h.presses = append(h.presses, l) },
	)
	return h
}

func TestSingleEdgePressesOnce(t *testing.T) {
	h := newHarness(DefaultConfig())

	assert.True(t, h.det.OnRawEdge(panel.ButtonA))
	assert.Equal(t, []panel.Line{panel.ButtonA}, h.presses)
	assert.True(t, h.det.Armed(panel.ButtonA))
	assert.False(t, h.det.Armed(panel.ButtonB))
}

func TestBounceWithinWindowPressesOnce(t *testing.T) {
	h := newHarness(DefaultConfig())

	accepted := 0
	for i := 0; i < 25; i++ {
		if h.det.OnRawEdge(panel.ButtonB) {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Len(t, h.presses, 1)
}

func TestReconcileWhileAssertedNeverClears(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.det.OnRawEdge(panel.JoystickButton)

	for i := 0; i < 10; i++ {
		require.NoError(t, h.det.Reconcile(panel.JoystickButton, true))
		assert.False(t, h.det.OnRawEdge(panel.JoystickButton))
	}
	assert.True(t, h.det.Armed(panel.JoystickButton))
	assert.Len(t, h.presses, 1)
	assert.Empty(t, h.slept)
}

func TestReconcileCleanRelease(t *testing.T) {
	cfg := DefaultConfig()
	h := newHarness(cfg)
	h.det.OnRawEdge(panel.ButtonA)
	h.lines.script[panel.ButtonA] = []bool{false}

	require.NoError(t, h.det.Reconcile(panel.ButtonA, false))

	assert.False(t, h.det.Armed(panel.ButtonA))
	assert.Equal(t, []time.Duration{cfg.SettleDelay, cfg.SettleDelay}, h.slept)

	// A new physical press is accepted again.
	assert.True(t, h.det.OnRawEdge(panel.ButtonA))
	assert.Len(t, h.presses, 2)
}

func TestReconcileReleaseBounceWaitsWithBackoff(t *testing.T) {
	cfg := Config{SettleDelay: 8 * time.Millisecond, PollInterval: time.Millisecond, MaxPolls: 10}
	h := newHarness(cfg)
	h.det.OnRawEdge(panel.ButtonB)
	// asserted again after the first pause, then three more bounces
	h.lines.script[panel.ButtonB] = []bool{true, true, true, true, true, false}

	require.NoError(t, h.det.Reconcile(panel.ButtonB, false))

	assert.False(t, h.det.Armed(panel.ButtonB))
	want := []time.Duration{
		8 * time.Millisecond,
		1 * time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
		8 * time.Millisecond,
		8 * time.Millisecond,
		8 * time.Millisecond,
	}
	assert.Equal(t, want, h.slept)
	assert.Len(t, h.presses, 1)
}

func TestReconcileStuckLineIsBounded(t *testing.T) {
	cfg := Config{SettleDelay: time.Millisecond, PollInterval: time.Millisecond, MaxPolls: 5}
	h := newHarness(cfg)
	h.det.OnRawEdge(panel.JoystickButton)
	h.lines.script[panel.JoystickButton] = []bool{true}

	err := h.det.Reconcile(panel.JoystickButton, false)
	require.ErrorIs(t, err, ErrStuck)
	assert.True(t, h.det.Armed(panel.JoystickButton))
	assert.Equal(t, 1+5, h.lines.reads[panel.JoystickButton])

	// Still guarded: no second toggle from further edges.
	assert.False(t, h.det.OnRawEdge(panel.JoystickButton))
	assert.Len(t, h.presses, 1)
}

func TestReconcileReadErrorKeepsGuard(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.det.OnRawEdge(panel.ButtonA)
	h.lines.err = errors.New("bus fault")

	err := h.det.Reconcile(panel.ButtonA, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, h.lines.err)
	assert.True(t, h.det.Armed(panel.ButtonA))
}

func TestReconcileUnarmedIsNoop(t *testing.T) {
	h := newHarness(DefaultConfig())
	require.NoError(t, h.det.Reconcile(panel.ButtonA, false))
	assert.Empty(t, h.slept)
	assert.Zero(t, h.lines.reads[panel.ButtonA])
}

func TestReconcileAllLinesAreIndependent(t *testing.T) {
	cfg := Config{SettleDelay: time.Millisecond, PollInterval: time.Millisecond, MaxPolls: 3}
	h := newHarness(cfg)
	h.det.OnRawEdge(panel.JoystickButton)
	h.det.OnRawEdge(panel.ButtonB)

	// Joystick button is stuck (released at the first read, asserted after
	// the settle pause); button B releases cleanly.
	h.lines.script[panel.JoystickButton] = []bool{false, true}
	h.lines.script[panel.ButtonB] = []bool{false, false}

	err := h.det.ReconcileAll()
	require.ErrorIs(t, err, ErrStuck)
	assert.True(t, h.det.Armed(panel.JoystickButton))
	assert.False(t, h.det.Armed(panel.ButtonB))
	assert.False(t, h.det.Armed(panel.ButtonA))
}

func TestReconcileAllReadError(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.lines.err = errors.New("bus fault")
	err := h.det.ReconcileAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, h.lines.err)
}

func TestPressReleasePressCycles(t *testing.T) {
	h := newHarness(DefaultConfig())
	for i := 0; i < 4; i++ {
		// press with bounce
		for j := 0; j < 5; j++ {
			h.det.OnRawEdge(panel.ButtonB)
		}
		require.NoError(t, h.det.Reconcile(panel.ButtonB, true))
		// release
		h.lines.script[panel.ButtonB] = []bool{false}
		require.NoError(t, h.det.Reconcile(panel.ButtonB, false))
	}
	assert.Len(t, h.presses, 4)
}

func TestUnknownLine(t *testing.T) {
	h := newHarness(DefaultConfig())
	assert.False(t, h.det.OnRawEdge(panel.Line(9)))
	assert.False(t, h.det.Armed(panel.Line(9)))
	assert.Error(t, h.det.Reconcile(panel.Line(9), false))
}
