package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)

	for i := 0; i < 20; i++ {
		x := float64(i) * 0.37
		y := float64(i) * 0.11
		va := a.Noise2D(x, y)
		assert.Equal(t, va, b.Noise2D(x, y), "Одинаковый сид должен давать одинаковый шум")
		assert.GreaterOrEqual(t, va, 0.0, "Шум должен быть не меньше 0")
		assert.LessOrEqual(t, va, 1.0, "Шум должен быть не больше 1")
	}
	assert.Equal(t, int64(42), a.Seed())
}
