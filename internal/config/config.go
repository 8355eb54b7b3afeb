// Package config resolves the settings of the pvc command from flags,
// PVC_* environment variables and an optional config file, in that order of precedence.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/taurusgroup/pvc/internal/params"
	"github.com/taurusgroup/pvc/pkg/aggregate"
	"github.com/taurusgroup/pvc/pkg/hash2curve"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"github.com/taurusgroup/pvc/pkg/pedersen"
	"github.com/taurusgroup/pvc/pkg/pool"
	"golang.org/x/crypto/sha3"
)

// EnvPrefix is prepended to every environment variable, so that eps-bps is read from PVC_EPS_BPS.
const EnvPrefix = "PVC"

const (
	KeyConfig     = "config"
	KeyCurve      = "curve"
	KeySeed       = "seed"
	KeyK          = "k"
	KeyHash       = "hash"
	KeyEpsBps     = "eps-bps"
	KeyWeightBase = "weight-base"
	KeyPayload    = "payload"
	KeyWorkers    = "workers"
	KeyLogLevel   = "log-level"
)

var ErrInvalid = errors.New("config: invalid value")

// Config is the resolved configuration of a run.
type Config struct {
	Curve      curve.Curve
	Seed       string
	K          int
	Hash       string
	EpsBps     uint64
	WeightBase *big.Int
	Payload    string
	Workers    int
	LogLevel   zerolog.Level
}

// New returns a viper instance with the defaults and environment binding of pvc.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyCurve, curve.BN254{}.Name())
	v.SetDefault(KeySeed, params.DefaultSeed)
	v.SetDefault(KeyK, params.DefaultGenerators)
	v.SetDefault(KeyHash, "sha256")
	v.SetDefault(KeyEpsBps, params.DefaultEpsBps)
	v.SetDefault(KeyWeightBase, fmt.Sprint(uint64(params.DefaultWeightBase)))
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyLogLevel, zerolog.InfoLevel.String())
	return v
}

// RegisterFlags declares the flags shared by every command, and binds them to v.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String(KeyConfig, "", "config file (yaml, json or toml)")
	fs.String(KeyCurve, v.GetString(KeyCurve), "group of the commitment key: bn254 or secp256k1")
	fs.String(KeySeed, v.GetString(KeySeed), "seed of the commitment key")
	fs.Int(KeyK, v.GetInt(KeyK), "number of value generators")
	fs.String(KeyHash, v.GetString(KeyHash), "digest used by hash-to-curve: sha256 or keccak256")
	fs.Uint64(KeyEpsBps, v.GetUint64(KeyEpsBps), "smoothing constant added to every error metric, in basis points")
	fs.String(KeyWeightBase, v.GetString(KeyWeightBase), "numerator of every weight")
	fs.String(KeyPayload, "", "locator of the aggregated payload")
	fs.Int(KeyWorkers, v.GetInt(KeyWorkers), "number of workers recomputing commitments, 0 for one per CPU")
	fs.String(KeyLogLevel, v.GetString(KeyLogLevel), "log level")
	return v.BindPFlags(fs)
}

// Load reads the config file named by the config key, if any, and resolves every setting.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	group, err := curve.ByName(strings.ToLower(v.GetString(KeyCurve)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	k := v.GetInt(KeyK)
	if k < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalid, KeyK, k)
	}
	hashName := strings.ToLower(v.GetString(KeyHash))
	if _, err = newHash(hashName); err != nil {
		return nil, err
	}
	weightBase, ok := new(big.Int).SetString(v.GetString(KeyWeightBase), 10)
	if !ok || weightBase.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalid, KeyWeightBase, v.GetString(KeyWeightBase))
	}
	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return &Config{
		Curve:      group,
		Seed:       v.GetString(KeySeed),
		K:          k,
		Hash:       hashName,
		EpsBps:     v.GetUint64(KeyEpsBps),
		WeightBase: weightBase,
		Payload:    v.GetString(KeyPayload),
		Workers:    v.GetInt(KeyWorkers),
		LogLevel:   level,
	}, nil
}

func newHash(name string) (func() hash.Hash, error) {
	switch name {
	case "sha256":
		return sha256.New, nil
	case "keccak256":
		return sha3.NewLegacyKeccak256, nil
	default:
		return nil, fmt.Errorf("%w: unknown hash %q", ErrInvalid, name)
	}
}

// HashOptions returns the hash-to-curve options selected by c.
func (c *Config) HashOptions() []hash2curve.Option {
	newH, err := newHash(c.Hash)
	if err != nil {
		panic(err)
	}
	return []hash2curve.Option{hash2curve.WithHash(newH)}
}

// Parameters derives the commitment key described by c.
func (c *Config) Parameters() (*pedersen.Parameters, error) {
	return pedersen.Generate(c.Curve, c.Seed, c.K, c.HashOptions()...)
}

// Aggregation returns the weighting of an aggregation run.
func (c *Config) Aggregation() aggregate.Config {
	return aggregate.Config{
		EpsBps:     c.EpsBps,
		WeightBase: new(big.Int).Set(c.WeightBase),
	}
}

// Pool returns the worker pool requested by c, or nil to work on the current goroutine.
// The caller must call TearDown on a non nil pool.
func (c *Config) Pool() *pool.Pool {
	if c.Workers == 1 {
		return nil
	}
	return pool.NewPool(c.Workers)
}

// Logger returns a human readable logger writing to w.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(c.LogLevel).
		With().Timestamp().
		Str("curve", c.Curve.Name()).
		Str("seed", c.Seed).
		Logger()
}
