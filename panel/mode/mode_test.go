package mode

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"joypanel/panel"
)

func TestNewStartsWithDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, Modes{LEDsEnabled: true}, s.Snapshot())
	assert.True(t, s.LEDsEnabled())
	assert.False(t, s.BorderVisible())
	assert.False(t, s.GridVisible())
}

func TestFlipTouchesOnlyOwnedMode(t *testing.T) {
	tests := []struct {
		line panel.Line
		want Modes
	}{
		{panel.JoystickButton, Modes{LEDsEnabled: true, BorderVisible: true}},
		{panel.ButtonA, Modes{}},
		{panel.ButtonB, Modes{LEDsEnabled: true, GridVisible: true}},
	}

	for _, tt := range tests {
		t.Run(tt.line.String(), func(t *testing.T) {
			s := New()
			got := s.Flip(tt.line)
			assert.Equal(t, tt.want, s.Snapshot())

			snap := s.Snapshot()
			switch tt.line {
			case panel.JoystickButton:
				assert.Equal(t, snap.BorderVisible, got)
			case panel.ButtonA:
				assert.Equal(t, snap.LEDsEnabled, got)
			case panel.ButtonB:
				assert.Equal(t, snap.GridVisible, got)
			}
		})
	}
}

func TestFlipTwiceRestores(t *testing.T) {
	s := New()
	for _, l := range panel.Lines {
		s.Flip(l)
		s.Flip(l)
	}
	assert.Equal(t, Defaults(), s.Snapshot())
}

func TestFlipUnknownLineIsNoop(t *testing.T) {
	s := New()
	assert.False(t, s.Flip(panel.Line(42)))
	assert.Equal(t, Defaults(), s.Snapshot())
}

func TestConcurrentFlipsAreNotLost(t *testing.T) {
	s := New()
	const flips = 1001

	var wg sync.WaitGroup
	wg.Add(flips)
	for i := 0; i < flips; i++ {
		go func() {
			defer wg.Done()
			s.Flip(panel.ButtonB)
		}()
	}
	wg.Wait()

	assert.True(t, s.GridVisible(), "odd number of flips must leave grid on")
}

func TestResetRestoresDefaults(t *testing.T) {
	s := New()
	s.Flip(panel.ButtonA)
	s.Flip(panel.JoystickButton)
	s.Reset()
	assert.Equal(t, Defaults(), s.Snapshot())
}
