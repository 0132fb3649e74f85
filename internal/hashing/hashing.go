// Package hashing provides the one-way salted hashers used for encrypted
// fields and credential verification.
package hashing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// ErrMismatch is returned by Compare when plaintext does not produce hash.
var ErrMismatch = errors.New("hashing: hash does not match")

// Hasher turns plaintext into a salted one-way hash and verifies it later.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) error
}

const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmPBKDF2 = "pbkdf2"

	DefaultPBKDF2Iterations = 600000
	pbkdf2SaltSize          = 16
	pbkdf2KeySize           = 32
	pbkdf2Prefix            = "pbkdf2-sha256"
)

// New builds the hasher named by algorithm. Zero cost or iterations select
// the defaults.
func New(algorithm string, cost, iterations int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cost)
	case AlgorithmPBKDF2:
		return NewPBKDF2(iterations)
	default:
		return nil, fmt.Errorf("unsupported hashing algorithm %q", algorithm)
	}
}

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Compare(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// PBKDF2 derives a SHA-256 key and encodes it as
// pbkdf2-sha256$<iterations>$<salt>$<key> with unpadded base64 parts.
type PBKDF2 struct {
	iterations int
}

func NewPBKDF2(iterations int) (*PBKDF2, error) {
	if iterations == 0 {
		iterations = DefaultPBKDF2Iterations
	}
	if iterations < 1 {
		return nil, fmt.Errorf("pbkdf2 iterations must be positive, got %d", iterations)
	}
	return &PBKDF2{iterations: iterations}, nil
}

func (p *PBKDF2) Hash(plaintext string) (string, error) {
	salt := make([]byte, pbkdf2SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("pbkdf2 salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plaintext), salt, p.iterations, pbkdf2KeySize, sha256.New)
	return strings.Join([]string{
		pbkdf2Prefix,
		strconv.Itoa(p.iterations),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	}, "$"), nil
}

// Compare honours the iteration count stored in hash, not the receiver's.
func (p *PBKDF2) Compare(hash, plaintext string) error {
	parts := strings.Split(hash, "$")
	if len(parts) != 4 || parts[0] != pbkdf2Prefix {
		return errors.New("pbkdf2: malformed hash")
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations < 1 {
		return errors.New("pbkdf2: malformed iteration count")
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return fmt.Errorf("pbkdf2 salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return fmt.Errorf("pbkdf2 key: %w", err)
	}
	got := pbkdf2.Key([]byte(plaintext), salt, iterations, len(want), sha256.New)
	if !hmac.Equal(got, want) {
		return ErrMismatch
	}
	return nil
}
