package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2Params carries the Argon2id cost settings. Hashing always uses the
// current defaults; verification re-derives with whatever settings are
// embedded in the stored hash, so costs can be raised without invalidating
// existing credentials.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// Costs sized for interactive logins.
var defaultArgon2Params = argon2Params{
	memory:  64 * 1024, // 64MB
	time:    1,
	threads: 4,
	keyLen:  32,
}

const argon2SaltLen = 16

// Argon2HashService implements ports.HashService using Argon2id for account
// credentials.
type Argon2HashService struct {
	params argon2Params
}

// NewArgon2HashService creates a hash service with the default cost settings.
func NewArgon2HashService() *Argon2HashService {
	return &Argon2HashService{params: defaultArgon2Params}
}

// Hash derives an Argon2id hash of the credential with a fresh random salt.
// Output format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (s *Argon2HashService) Hash(credential string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(credential), salt, s.params.time, s.params.memory, s.params.threads, s.params.keyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		s.params.memory, s.params.time, s.params.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether the credential matches the stored hash. The cost
// settings come from the hash itself, not from the service defaults.
func (s *Argon2HashService) Verify(credential string, encodedHash string) (bool, error) {
	salt, key, params, err := parseCredentialHash(encodedHash)
	if err != nil {
		return false, err
	}

	otherKey := argon2.IDKey([]byte(credential), salt, params.time, params.memory, params.threads, params.keyLen)

	return subtle.ConstantTimeCompare(key, otherKey) == 1, nil
}

// parseCredentialHash splits a stored hash into salt, derived key and the
// cost settings it was created with.
func parseCredentialHash(encodedHash string) (salt, key []byte, params argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, params, fmt.Errorf("malformed credential hash: expected 6 segments, got %d", len(parts))
	}

	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("parsing hash version: %w", err)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, params, fmt.Errorf("parsing hash cost settings: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, params, fmt.Errorf("decoding derived key: %w", err)
	}

	params.keyLen = uint32(len(key))

	return salt, key, params, nil
}
