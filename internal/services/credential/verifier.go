// Package credential checks the shared game secret against a salted, iterated hash.
//
// Three encodings are understood:
//
//	$2a$/$2b$/$2y$...                       bcrypt, cost encoded in the hash
//	$pbkdf2-sha256$<rounds>$<salt>$<key>    PBKDF2-HMAC-SHA256, passlib "ab64" salt and key
//	$5$[rounds=<n>$]<salt>$<hash>           SHA256-crypt, as written by passlib sha256_crypt
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/GehirnInc/crypt/sha256_crypt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Supported schemes
const (
	SchemeBcrypt = "bcrypt"
	SchemePBKDF2 = "pbkdf2-sha256"
	SchemeSHA256 = "sha256-crypt"
)

const (
	pbkdf2Prefix        = "$pbkdf2-sha256$"
	DefaultPBKDF2Rounds = 29000
	pbkdf2SaltLen       = 16
	pbkdf2KeyLen        = 32

	DefaultSHA256Rounds = 535000
	sha256SaltLen       = 16
	cryptAlphabet       = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// ErrUnsupportedHash is returned for hashes in an unknown or malformed encoding
var ErrUnsupportedHash = errors.New("unsupported credential hash")

// Verifier holds the configured credential hash
type Verifier struct {
	hash string
}

// NewVerifier validates the stored hash format up front so misconfiguration
// fails at startup rather than on the first login
func NewVerifier(storedHash string) (*Verifier, error) {
	storedHash = strings.TrimSpace(storedHash)
	switch {
	case isBcrypt(storedHash):
		if _, err := bcrypt.Cost([]byte(storedHash)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
		}
	case strings.HasPrefix(storedHash, pbkdf2Prefix):
		if _, err := parsePBKDF2(storedHash); err != nil {
			return nil, err
		}
	case strings.HasPrefix(storedHash, sha256_crypt.MagicPrefix):
		if err := checkSHA256Crypt(storedHash); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedHash
	}
	return &Verifier{hash: storedHash}, nil
}

// Verify reports whether secret matches the configured hash
func (v *Verifier) Verify(secret string) bool {
	return Verify(secret, v.hash)
}

// Verify reports whether secret matches storedHash. An empty secret or an
// unreadable hash never matches.
func Verify(secret, storedHash string) bool {
	if secret == "" {
		return false
	}
	switch {
	case isBcrypt(storedHash):
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(secret)) == nil
	case strings.HasPrefix(storedHash, pbkdf2Prefix):
		p, err := parsePBKDF2(storedHash)
		if err != nil {
			return false
		}
		derived := pbkdf2.Key([]byte(secret), p.salt, p.rounds, len(p.key), sha256.New)
		return subtle.ConstantTimeCompare(derived, p.key) == 1
	case strings.HasPrefix(storedHash, sha256_crypt.MagicPrefix):
		if checkSHA256Crypt(storedHash) != nil {
			return false
		}
		// Recompute from the setting alone so salts shorter than the
		// maximum are not read into the digest
		setting := storedHash[:strings.LastIndex(storedHash, "$")]
		computed, err := sha256_crypt.New().Generate([]byte(secret), []byte(setting))
		if err != nil {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
	default:
		return false
	}
}

// HashSecret produces a hash for the given scheme. cost is the bcrypt cost or
// the PBKDF2 round count; zero selects the scheme default.
func HashSecret(secret, scheme string, cost int) (string, error) {
	if secret == "" {
		return "", errors.New("secret must not be empty")
	}
	switch scheme {
	case SchemeBcrypt, "":
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	case SchemePBKDF2:
		if cost == 0 {
			cost = DefaultPBKDF2Rounds
		}
		if cost < 1 {
			return "", fmt.Errorf("rounds must be positive, got %d", cost)
		}
		salt := make([]byte, pbkdf2SaltLen)
		if _, err := rand.Read(salt); err != nil {
			return "", err
		}
		key := pbkdf2.Key([]byte(secret), salt, cost, pbkdf2KeyLen, sha256.New)
		return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, cost, ab64Encode(salt), ab64Encode(key)), nil
	case SchemeSHA256:
		if cost == 0 {
			cost = DefaultSHA256Rounds
		}
		if cost < sha256_crypt.RoundsMin || cost > sha256_crypt.RoundsMax {
			return "", fmt.Errorf("rounds must be between %d and %d, got %d",
				sha256_crypt.RoundsMin, sha256_crypt.RoundsMax, cost)
		}
		salt, err := cryptSalt(sha256SaltLen)
		if err != nil {
			return "", err
		}
		setting := fmt.Sprintf("%srounds=%d$%s", sha256_crypt.MagicPrefix, cost, salt)
		return sha256_crypt.New().Generate([]byte(secret), []byte(setting))
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedHash, scheme)
	}
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

// checkSHA256Crypt rejects $5$ hashes without a salt and digest part or with
// an out of range round count
func checkSHA256Crypt(hash string) error {
	parts := strings.Split(strings.TrimPrefix(hash, sha256_crypt.MagicPrefix), "$")
	if len(parts) < 2 || len(parts) > 3 || parts[len(parts)-1] == "" {
		return fmt.Errorf("%w: want [rounds=N$]salt$hash", ErrUnsupportedHash)
	}
	if _, err := sha256_crypt.New().Cost(hash); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	}
	return nil
}

func cryptSalt(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = cryptAlphabet[int(b[i])%len(cryptAlphabet)]
	}
	return string(b), nil
}

type pbkdf2Hash struct {
	rounds int
	salt   []byte
	key    []byte
}

func parsePBKDF2(hash string) (*pbkdf2Hash, error) {
	parts := strings.Split(strings.TrimPrefix(hash, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: want rounds$salt$key", ErrUnsupportedHash)
	}
	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds < 1 {
		return nil, fmt.Errorf("%w: bad round count %q", ErrUnsupportedHash, parts[0])
	}
	salt, err := ab64Decode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad salt: %v", ErrUnsupportedHash, err)
	}
	key, err := ab64Decode(parts[2])
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("%w: bad key", ErrUnsupportedHash)
	}
	return &pbkdf2Hash{rounds: rounds, salt: salt, key: key}, nil
}

// passlib's adapted base64 uses '.' in place of '+' and drops padding
func ab64Encode(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}

func ab64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
