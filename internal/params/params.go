package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// BytesScalar is the encoded size of a scalar modulo the group order.
	BytesScalar = 32
	// BytesFieldElement is the encoded size of a base-field element.
	BytesFieldElement = 32
	// BytesPoint is the size of an uncompressed affine point x ∥ y.
	BytesPoint = 2 * BytesFieldElement // = 64

	// HexDigitsFieldElement is the number of hex digits in an exported coordinate.
	HexDigitsFieldElement = 2 * BytesFieldElement // = 64

	// MaxMapToCurveAttempts bounds the try-and-increment search.
	// A candidate x is accepted with probability ~1/2, so reaching this bound
	// means the seed or field setup is broken.
	MaxMapToCurveAttempts = 10_000

	// DefaultGenerators is the number of value generators G_0..G_{k-1} of the reference key.
	DefaultGenerators = 3

	// DefaultSeed is the seed of the reference commitment key.
	DefaultSeed = "PVC-3-v1"

	// DefaultEpsBps is the default smoothing constant, in basis points.
	DefaultEpsBps = 1

	// DefaultWeightBase is 10¹², the numerator of every weight.
	DefaultWeightBase = 1_000_000_000_000
)
