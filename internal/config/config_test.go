package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"github.com/taurusgroup/pvc/pkg/pedersen"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, RegisterFlags(fs, v))
	require.NoError(t, fs.Parse(args))
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, "bn254", cfg.Curve.Name())
	assert.Equal(t, "PVC-3-v1", cfg.Seed)
	assert.Equal(t, 3, cfg.K)
	assert.Equal(t, "sha256", cfg.Hash)
	assert.Equal(t, uint64(1), cfg.EpsBps)
	assert.Equal(t, "1000000000000", cfg.WeightBase.String())
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Nil(t, cfg.Pool())
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("PVC_SEED", "from-env")
	t.Setenv("PVC_EPS_BPS", "7")
	t.Setenv("PVC_WEIGHT_BASE", "1000")

	cfg, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Seed)
	assert.Equal(t, uint64(7), cfg.EpsBps)
	assert.Equal(t, "1000", cfg.WeightBase.String())

	cfg, err = load(t, "--seed", "from-flag", "--eps-bps=3")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Seed)
	assert.Equal(t, uint64(3), cfg.EpsBps)
	assert.Equal(t, "1000", cfg.WeightBase.String())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pvc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("curve: secp256k1\nk: 5\nhash: keccak256\npayload: ipfs://x\n"), 0o600))

	cfg, err := load(t, "--config", path, "--k", "2")
	require.NoError(t, err)
	assert.Equal(t, "secp256k1", cfg.Curve.Name())
	assert.Equal(t, 2, cfg.K)
	assert.Equal(t, "keccak256", cfg.Hash)
	assert.Equal(t, "ipfs://x", cfg.Payload)

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"curve", []string{"--curve", "p256"}},
		{"k", []string{"--k", "0"}},
		{"hash", []string{"--hash", "md5"}},
		{"weight base", []string{"--weight-base", "0"}},
		{"weight base not a number", []string{"--weight-base", "1e12"}},
		{"log level", []string{"--log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args...)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestConfig_Parameters(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)
	p, err := cfg.Parameters()
	require.NoError(t, err)
	expected, err := pedersen.Generate(curve.BN254{}, "PVC-3-v1", 3)
	require.NoError(t, err)
	f1, _ := p.Fingerprint()
	f2, _ := expected.Fingerprint()
	assert.Equal(t, f2, f1)

	cfg, err = load(t, "--hash", "keccak256")
	require.NoError(t, err)
	keccak, err := cfg.Parameters()
	require.NoError(t, err)
	assert.False(t, keccak.H().Equal(expected.H()))
}

func TestConfig_Aggregation(t *testing.T) {
	cfg, err := load(t, "--eps-bps", "4", "--weight-base", "500")
	require.NoError(t, err)
	agg := cfg.Aggregation()
	assert.Equal(t, uint64(4), agg.EpsBps)
	assert.Equal(t, "500", agg.WeightBase.String())
	agg.WeightBase.SetInt64(1)
	assert.Equal(t, "500", cfg.WeightBase.String())
}

func TestConfig_Pool(t *testing.T) {
	cfg, err := load(t, "--workers", "4")
	require.NoError(t, err)
	pl := cfg.Pool()
	require.NotNil(t, pl)
	pl.TearDown()
}

func TestConfig_Logger(t *testing.T) {
	cfg, err := load(t, "--log-level", "warn")
	require.NoError(t, err)
	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
