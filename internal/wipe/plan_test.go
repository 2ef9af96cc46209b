package wipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	zero := Pattern{Byte: 0x00}
	ones := Pattern{Byte: 0xFF}
	random := Pattern{Random: true}

	tests := []struct {
		name      string
		mode      Mode
		requested int
		patterns  []Pattern
		upgraded  bool
	}{
		{name: "zeros single pass", mode: ModeZeros, requested: 1, patterns: []Pattern{zero}},
		{name: "zeros clamps zero", mode: ModeZeros, requested: 0, patterns: []Pattern{zero}},
		{name: "zeros clamps negative", mode: ModeZeros, requested: -7, patterns: []Pattern{zero}},
		{name: "zeros three passes", mode: ModeZeros, requested: 3, patterns: []Pattern{zero, zero, zero}},
		{name: "random two passes", mode: ModeRandom, requested: 2, patterns: []Pattern{random, random}},
		{name: "secureflip upgraded from one", mode: ModeSecureFlip, requested: 1, patterns: []Pattern{zero, ones}, upgraded: true},
		{name: "secureflip upgraded from clamped zero", mode: ModeSecureFlip, requested: 0, patterns: []Pattern{zero, ones}, upgraded: true},
		{name: "secureflip two passes", mode: ModeSecureFlip, requested: 2, patterns: []Pattern{zero, ones}},
		// нечётное число проходов заканчивается на 0x00
		{name: "secureflip odd count follows parity", mode: ModeSecureFlip, requested: 3, patterns: []Pattern{zero, ones, zero}},
		{name: "secureflip four passes", mode: ModeSecureFlip, requested: 4, patterns: []Pattern{zero, ones, zero, ones}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewPlan(tt.mode, tt.requested)

			require.Equal(t, len(tt.patterns), plan.Len())
			assert.Equal(t, tt.upgraded, plan.Upgraded)
			for i, pass := range plan.Passes {
				assert.Equal(t, i+1, pass.Index)
				assert.Equal(t, tt.patterns[i], pass.Pattern, "pass %d", pass.Index)
			}
			assert.Equal(t, tt.patterns[len(tt.patterns)-1], plan.Final())
		})
	}
}

func TestPlanNotice(t *testing.T) {
	plan := NewPlan(ModeSecureFlip, 1)
	assert.Equal(t, "As you are using 'SecureFlip', passes changed from 1 to 2", plan.Notice())

	assert.Empty(t, NewPlan(ModeSecureFlip, 2).Notice())
	assert.Empty(t, NewPlan(ModeZeros, 1).Notice())
}

func TestPlanSecureFlipMinimum(t *testing.T) {
	for requested := -3; requested <= 6; requested++ {
		plan := NewPlan(ModeSecureFlip, requested)
		assert.GreaterOrEqual(t, plan.Len(), MinSecureFlipPasses, "requested %d", requested)
		assert.Equal(t, byte(0x00), plan.Passes[0].Pattern.Byte)
		assert.Equal(t, byte(0xFF), plan.Passes[1].Pattern.Byte)
	}
}
