// Package credential hashes and verifies account passwords.
//
// New hashes are argon2id PHC strings by default. Verify also accepts bcrypt
// hashes so that accounts created by older clients keep working.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand/v2"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported hashing algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

const (
	saltLength = 16
	keyLength  = 32

	// bounds accepted when reading a stored argon2id hash
	maxMemoryKB   = 1 << 20 // 1 GiB
	maxIterations = 64
	minSaltLength = 8
	maxSaltLength = 64
	minKeyLength  = 16
	maxKeyLength  = 64

	defaultIterations  = 3
	defaultMemoryKB    = 64 * 1024
	defaultParallelism = 2
	defaultBcryptCost  = bcrypt.DefaultCost
)

var (
	ErrNoRandomness     = errors.New("credential: no usable random source")
	ErrUnknownFormat    = errors.New("credential: unrecognised hash format")
	ErrUnknownAlgorithm = errors.New("credential: unknown algorithm")
)

// Params is the work factor for new hashes.
type Params struct {
	Algorithm   string
	Iterations  uint32
	MemoryKB    uint32
	Parallelism uint8
	BcryptCost  int
}

// DefaultParams returns the argon2id parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Algorithm:   AlgorithmArgon2id,
		Iterations:  defaultIterations,
		MemoryKB:    defaultMemoryKB,
		Parallelism: defaultParallelism,
		BcryptCost:  defaultBcryptCost,
	}
}

// Hasher produces and checks password hashes.
type Hasher struct {
	params   Params
	random   io.Reader
	fallback io.Reader
}

// Option customises a Hasher.
type Option func(*Hasher)

// WithRandom replaces the system random source used for salts.
func WithRandom(r io.Reader) Option {
	return func(h *Hasher) { h.random = r }
}

// WithFallback sets the byte source used when the system random source fails.
func WithFallback(r io.Reader) Option {
	return func(h *Hasher) { h.fallback = r }
}

// NewFallbackSource returns a ChaCha8 stream seeded from the clock and process
// id. It is not a substitute for crypto/rand; it only keeps signup working on
// hosts where the system source is unavailable.
func NewFallbackSource() io.Reader {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], uint64(time.Now().UnixNano())) // #nosec G115
	binary.LittleEndian.PutUint64(b[8:], uint64(os.Getpid()))           // #nosec G115
	return mathrand.NewChaCha8(sha256.Sum256(b[:]))
}

// NewHasher builds a Hasher. Zero fields in params take their defaults.
func NewHasher(params Params, opts ...Option) (*Hasher, error) {
	def := DefaultParams()
	if params.Algorithm == "" {
		params.Algorithm = def.Algorithm
	}
	if params.Algorithm != AlgorithmArgon2id && params.Algorithm != AlgorithmBcrypt {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, params.Algorithm)
	}
	if params.Iterations == 0 {
		params.Iterations = def.Iterations
	}
	if params.MemoryKB == 0 {
		params.MemoryKB = def.MemoryKB
	}
	if params.Parallelism == 0 {
		params.Parallelism = def.Parallelism
	}
	if params.BcryptCost == 0 {
		params.BcryptCost = def.BcryptCost
	}
	if params.Iterations > maxIterations || params.MemoryKB > maxMemoryKB || params.MemoryKB < 8*uint32(params.Parallelism) {
		return nil, fmt.Errorf("credential: argon2id parameters m=%d,t=%d,p=%d out of range",
			params.MemoryKB, params.Iterations, params.Parallelism)
	}
	if params.BcryptCost < bcrypt.MinCost || params.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("credential: bcrypt cost %d out of range", params.BcryptCost)
	}

	h := &Hasher{params: params, random: rand.Reader}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Hash returns an encoded hash of password. The bcrypt algorithm draws its salt
// from crypto/rand inside x/crypto, so the random and fallback sources only
// apply to argon2id.
func (h *Hasher) Hash(password string) (string, error) {
	if h.params.Algorithm == AlgorithmBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.params.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		return string(hash), nil
	}

	salt, err := h.salt()
	if err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.MemoryKB, h.params.Parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKB,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *Hasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return verifyArgon2id(password, hash) == nil
	case isBcrypt(hash):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	default:
		return false
	}
}

// salt reads from the system source first, then from the fallback.
func (h *Hasher) salt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if h.random != nil {
		if _, err := io.ReadFull(h.random, salt); err == nil {
			return salt, nil
		}
	}
	if h.fallback == nil {
		return nil, ErrNoRandomness
	}
	if _, err := io.ReadFull(h.fallback, salt); err != nil {
		return nil, fmt.Errorf("%w: fallback: %v", ErrNoRandomness, err)
	}
	return salt, nil
}

func isBcrypt(hash string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(hash, p) {
			return true
		}
	}
	return false
}

// verifyArgon2id parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash and compares in constant time.
func verifyArgon2id(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts", ErrUnknownFormat)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return fmt.Errorf("%w: unsupported version", ErrUnknownFormat)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrUnknownFormat, err)
	}
	if iters < 1 || iters > maxIterations || par < 1 || mem < 8*uint32(par) || mem > maxMemoryKB {
		return fmt.Errorf("%w: parameters out of range", ErrUnknownFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrUnknownFormat, err)
	}
	if len(salt) < minSaltLength || len(salt) > maxSaltLength {
		return fmt.Errorf("%w: salt length %d", ErrUnknownFormat, len(salt))
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) < minKeyLength || len(expected) > maxKeyLength {
		return fmt.Errorf("%w: key", ErrUnknownFormat)
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected))) // #nosec G115
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return errors.New("password does not match")
	}
	return nil
}
