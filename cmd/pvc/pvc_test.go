package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/pvc/pkg/aggregate"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"github.com/taurusgroup/pvc/pkg/pedersen"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func bigInt(x int64) *big.Int { return big.NewInt(x) }

const referenceH = "H: (0x097ef6106c3c7b76ad182bdfa1398ac1b9e28e9f40928c01ada8a6cdc7cefdb3, 0x1764bc1473279839ef4efbd63119dcdd7504227831fe45c097b106f31b1f03b7)"

func TestParams(t *testing.T) {
	out, _, err := run(t, "", "params")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "curve: bn254", lines[0])
	assert.Equal(t, "seed: PVC-3-v1", lines[1])
	assert.Equal(t, referenceH, lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "G0: (0x0327d017"))
	assert.True(t, strings.HasPrefix(lines[6], "fingerprint: "))
	assert.Len(t, strings.TrimPrefix(lines[6], "fingerprint: "), 64)

	out, _, err = run(t, "", "params", "--k", "5", "--curve", "secp256k1")
	require.NoError(t, err)
	assert.Contains(t, out, "curve: secp256k1")
	assert.Contains(t, out, "G4: (0x")
}

func TestParams_Env(t *testing.T) {
	t.Setenv("PVC_SEED", "other")
	out, _, err := run(t, "", "params")
	require.NoError(t, err)
	assert.Contains(t, out, "seed: other")
	assert.NotContains(t, out, referenceH)
}

func TestParams_Out(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.cbor")
	_, _, err := run(t, "", "params", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	p := pedersen.EmptyParameters()
	require.NoError(t, p.UnmarshalBinary(data))
	assert.NoError(t, p.CheckDerivation())

	out, _, err := run(t, "", "commit", "--params", path, "--w", "1,2,3", "--r", "5")
	require.NoError(t, err)
	c, err := p.CommitInt64([]int64{1, 2, 3}, bigInt(5))
	require.NoError(t, err)
	assert.Contains(t, out, "C: "+formatPoint(c))
}

func TestCommit(t *testing.T) {
	out, _, err := run(t, "", "commit", "--w", "12,-7,3", "--r", "123456789")
	require.NoError(t, err)

	p, err := pedersen.Generate(curve.BN254{}, "PVC-3-v1", 3)
	require.NoError(t, err)
	c, err := p.CommitInt64([]int64{12, -7, 3}, bigInt(123456789))
	require.NoError(t, err)
	assert.Equal(t, "C: "+formatPoint(c)+"\nr: 123456789\n", out)

	out, _, err = run(t, "", "commit", "--w", "0,0,0")
	require.NoError(t, err)
	assert.Contains(t, out, "r: ")

	_, _, err = run(t, "", "commit", "--w", "1,2")
	assert.ErrorIs(t, err, pedersen.ErrInputShape)

	_, _, err = run(t, "", "commit", "--w", "1,2,3", "--r", "x")
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	out, stderr, err := run(t, "", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, referenceH)
	assert.Contains(t, out, "Wsum: [3200872423 1978559638 12634742583]\n")
	assert.Contains(t, out, "Rsum: 559640688243272595\n")
	assert.Contains(t, out, "nums: [666222518 1248439450 199960007] sumNum: 2114621975\n")
	assert.Contains(t, stderr, "aggregate verified")

	_, _, err = run(t, "", "demo", "--k", "2")
	assert.Error(t, err)
}

func TestAggregate_Input(t *testing.T) {
	p, err := pedersen.Generate(curve.BN254{}, "PVC-3-v1", 3)
	require.NoError(t, err)
	c0, err := p.CommitInt64([]int64{12, -7, 3}, bigInt(123456789))
	require.NoError(t, err)
	point, err := newPointJSON(c0)
	require.NoError(t, err)

	records := []submissionJSON{
		{W: []json.Number{"12", "-7", "3"}, R: "123456789", ErrorBps: 1500, Commitment: point},
		{W: []json.Number{"-4", "5", "9"}, R: "222222222", ErrorBps: 800},
		{W: []json.Number{"1", "2", "-3"}, R: "999999999", ErrorBps: 5000},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)

	resultPath := filepath.Join(t.TempDir(), "result.cbor")
	out, _, err := run(t, string(data), "aggregate", "--payload", "ipfs://model", "--workers", "2", "--out", resultPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wsum: [3200872423 1978559638 12634742583]\n")
	assert.Contains(t, out, "payload: ipfs://model\n")

	encoded, err := os.ReadFile(resultPath)
	require.NoError(t, err)
	var result aggregate.Result
	require.NoError(t, result.UnmarshalBinary(encoded))
	assert.Equal(t, "ipfs://model", result.Payload)

	path := filepath.Join(t.TempDir(), "subs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"w": [1, 2, 3], "r": 7, "error_bps": 0}]`), 0o600))
	out, _, err = run(t, "", "aggregate", "--input", path, "--eps-bps", "0", "--weight-base", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Wsum: [10 20 30]\n")
	assert.Contains(t, out, "Rsum: 70\n")
	assert.Contains(t, out, "average: [1/1 2/1 3/1]\n")
}

func TestAggregate_Rejected(t *testing.T) {
	p, err := pedersen.Generate(curve.BN254{}, "PVC-3-v1", 3)
	require.NoError(t, err)
	wrong, err := p.CommitInt64([]int64{1, 1, 1}, bigInt(1))
	require.NoError(t, err)
	point, err := newPointJSON(wrong)
	require.NoError(t, err)

	data, err := json.Marshal([]submissionJSON{
		{W: []json.Number{"12", "-7", "3"}, R: "123456789", ErrorBps: 1500, Commitment: point},
	})
	require.NoError(t, err)
	out, stderr, err := run(t, string(data), "aggregate")
	assert.ErrorIs(t, err, aggregate.ErrAggregationMismatch)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "aggregation rejected")
}

func TestReadSubmissions_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"unknown field", `[{"w": [1], "r": 1, "error_bps": 0, "weight": 3}]`},
		{"bad w", `[{"w": ["x"], "r": 1, "error_bps": 0}]`},
		{"fractional r", `[{"w": [1], "r": 1.5, "error_bps": 0}]`},
		{"missing r", `[{"w": [1], "error_bps": 0}]`},
		{"point off curve", `[{"w": [1], "r": 1, "error_bps": 0, "commitment": {"x": "0x01", "y": "0x01"}}]`},
		{"bad hex", `[{"w": [1], "r": 1, "error_bps": 0, "commitment": {"x": "zz", "y": "0x01"}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readSubmissions(strings.NewReader(tt.input), curve.BN254{})
			assert.Error(t, err)
		})
	}
}

func TestFormatPoint_Identity(t *testing.T) {
	assert.Equal(t, "identity", formatPoint(curve.BN254{}.NewPoint()))
}
