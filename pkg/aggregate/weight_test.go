package aggregate

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightNumerator(t *testing.T) {
	base := big.NewInt(1_000_000_000_000)
	tests := []struct {
		name     string
		errorBps uint64
		epsBps   uint64
		base     *big.Int
		expected string
	}{
		{"reference 1500", 1500, 1, base, "666222518"},
		{"reference 800", 800, 1, base, "1248439450"},
		{"reference 5000", 5000, 1, base, "199960007"},
		{"zero denominator", 0, 0, base, "1000000000000"},
		{"zero error", 0, 1, base, "1000000000000"},
		{"exact", 4, 0, big.NewInt(100), "25"},
		{"floor", 3, 0, big.NewInt(100), "33"},
		{"base below denominator", 7, 0, big.NewInt(6), "0"},
		{"no overflow", math.MaxUint64, math.MaxUint64, new(big.Int).Lsh(big.NewInt(1), 70), "32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeightNumerator(tt.errorBps, tt.epsBps, tt.base).String())
		})
	}
}

func TestWeightNumerator_Monotonic(t *testing.T) {
	cfg := DefaultConfig()
	prev := cfg.Numerator(0)
	for e := uint64(1); e < 20_000; e += 97 {
		n := cfg.Numerator(e)
		assert.LessOrEqual(t, n.Cmp(prev), 0, "error %d", e)
		prev = n
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{WeightBase: big.NewInt(1)}.Validate())
	assert.ErrorIs(t, Config{}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{WeightBase: new(big.Int)}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{WeightBase: big.NewInt(-3)}.Validate(), ErrInvalidConfig)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint64(1), cfg.EpsBps)
	assert.Equal(t, "1000000000000", cfg.WeightBase.String())
	// Callers may modify their copy.
	cfg.WeightBase.SetInt64(5)
	assert.Equal(t, "1000000000000", DefaultConfig().WeightBase.String())
}
