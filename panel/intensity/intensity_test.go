package intensity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joypanel/panel"
)

func TestMapDeadZone(t *testing.T) {
	for v := 2048 - 100; v <= 2048+100; v++ {
		if got := Map(uint16(v)); got != 0 {
			t.Fatalf("Map(%d) = %d, want 0", v, got)
		}
	}
}

func TestMapLinearOutsideDeadZone(t *testing.T) {
	for v := 0; v <= panel.AxisMax; v++ {
		diff := v - 2048
		if diff < 0 {
			diff = -diff
		}
		if diff <= 100 {
			continue
		}
		want := uint16(uint32(diff) * 65535 / 2048)
		if got := Map(uint16(v)); got != want {
			t.Fatalf("Map(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestMapEdges(t *testing.T) {
	tests := []struct {
		name string
		raw  uint16
		want uint16
	}{
		{"full low", 0, 65535},
		{"full high", 4095, 2047 * 65535 / 2048},
		{"center", 2048, 0},
		{"just outside below", 1947, 101 * 65535 / 2048},
		{"just outside above", 2149, 101 * 65535 / 2048},
		{"out of range clamps", 0xFFFF, 65535},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Map(tt.raw))
		})
	}
}

func TestCustomMapperStaysBounded(t *testing.T) {
	m := Mapper{Center: 512, DeadZone: 10, MaxOut: 1000, MaxIn: 512}
	require.NoError(t, m.Validate())
	for v := 0; v <= panel.AxisMax; v++ {
		assert.LessOrEqual(t, m.Map(uint16(v)), uint16(1000))
	}
	assert.Equal(t, uint16(1000), m.Map(0))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultMapper.Validate())
	assert.ErrorIs(t, Mapper{}.Validate(), ErrInvalidMapper)
	assert.ErrorIs(t, Mapper{MaxIn: 100, DeadZone: 100}.Validate(), ErrInvalidMapper)
}

func TestDerive(t *testing.T) {
	s := panel.Sample{X: 0, Y: 2048}
	assert.Equal(t, Pair{Red: 65535, Blue: 0}, DefaultMapper.Derive(s, true))
	assert.Equal(t, Pair{}, DefaultMapper.Derive(s, false))
}
