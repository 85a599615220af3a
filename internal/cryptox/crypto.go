// Package cryptox implements the password credential scheme: a salted,
// iterated PBKDF2 key derivation and its verification.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	"github.com/dmitrijs2005/brimon/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	MinIterations = 10000
	MinSaltLen    = 16
)

var ErrInvalidParams = errors.New("invalid key derivation parameters")

// Params is a fixed key-derivation parameter set. Changing any field changes
// every derived hash, so stored credentials are only valid for the set they
// were made with.
type Params struct {
	Hash       func() hash.Hash
	Iterations int
	SaltLen    int
	KeyLen     int
}

// DefaultParams: PBKDF2-HMAC-SHA256, 10000 iterations, 16-byte salt,
// 32-byte key.
var DefaultParams = Params{
	Hash:       sha256.New,
	Iterations: 10000,
	SaltLen:    16,
	KeyLen:     32,
}

func (p Params) Validate() error {
	if p.Hash == nil || p.Iterations < MinIterations || p.SaltLen < MinSaltLen || p.KeyLen <= 0 {
		return ErrInvalidParams
	}
	return nil
}

// Credential is a derived key together with the salt it was derived with.
type Credential struct {
	Hash []byte
	Salt []byte
}

func (c *Credential) HashHex() string { return hex.EncodeToString(c.Hash) }
func (c *Credential) SaltHex() string { return hex.EncodeToString(c.Salt) }

// Derive runs the key derivation over password using DefaultParams.
// A nil salt makes Derive generate a fresh random one.
func Derive(password, salt []byte) (*Credential, error) {
	return DefaultParams.Derive(password, salt)
}

// DeriveHex is Derive for a hex-encoded stored salt.
func DeriveHex(password []byte, saltHex string) (*Credential, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	return Derive(password, salt)
}

// Verify reports whether password matches the stored hex-encoded hash and
// salt under DefaultParams. Missing or malformed inputs yield false.
func Verify(password []byte, storedHashHex, storedSaltHex string) bool {
	return DefaultParams.Verify(password, storedHashHex, storedSaltHex)
}

func (p Params) Derive(password, salt []byte) (*Credential, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if salt == nil {
		salt = common.GenerateRandByteArray(p.SaltLen)
	} else if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrInvalidParams)
	}

	key := pbkdf2.Key(password, salt, p.Iterations, p.KeyLen, p.Hash)

	return &Credential{Hash: key, Salt: append([]byte(nil), salt...)}, nil
}

func (p Params) Verify(password []byte, storedHashHex, storedSaltHex string) bool {
	if storedHashHex == "" || storedSaltHex == "" {
		return false
	}

	stored, err := hex.DecodeString(storedHashHex)
	if err != nil || len(stored) != p.KeyLen {
		return false
	}
	salt, err := hex.DecodeString(storedSaltHex)
	if err != nil || len(salt) == 0 {
		return false
	}

	candidate, err := p.Derive(password, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(stored, candidate.Hash) == 1
}
