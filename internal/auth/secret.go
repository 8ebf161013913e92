package auth

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"milkchess/internal/config"
)

const (
	bcryptCost      = 12
	minSecretLength = 16
)

var (
	ErrSecretTooShort     = errors.New("client secret must be at least 16 characters")
	ErrInvalidCredentials = errors.New("invalid client credentials")
)

type SecretService struct {
	cost int
}

func NewSecretService() *SecretService {
	return &SecretService{
		cost: bcryptCost,
	}
}

// HashSecret hashes a client secret using bcrypt
func (s *SecretService) HashSecret(secret string) (string, error) {
	if err := ValidateSecretStrength(secret); err != nil {
		return "", err
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CompareSecret compares a plain text secret with a hash
func (s *SecretService) CompareSecret(hashedSecret, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(secret))
}

// ValidateSecretStrength checks if a secret meets minimum requirements
func ValidateSecretStrength(secret string) error {
	if len(strings.TrimSpace(secret)) < minSecretLength {
		return ErrSecretTooShort
	}
	return nil
}

// ClientRegistry authenticates the API clients listed in the config.
type ClientRegistry struct {
	hashes  map[string]string
	compare func(hash, secret string) error

	// unknown is hashed at the cost of the configured clients and compared
	// against on a name miss so both failures cost one bcrypt run.
	unknown func() string
}

func NewClientRegistry(clients []config.Client) *ClientRegistry {
	hashes := make(map[string]string, len(clients))
	cost := bcryptCost
	for _, c := range clients {
		if c.Name == "" || c.SecretHash == "" {
			continue
		}
		hashes[c.Name] = c.SecretHash
		if n, err := bcrypt.Cost([]byte(c.SecretHash)); err == nil {
			cost = n
		}
	}
	return &ClientRegistry{
		hashes:  hashes,
		compare: NewSecretService().CompareSecret,
		unknown: sync.OnceValue(func() string {
			h, err := bcrypt.GenerateFromPassword([]byte("milkchess-unknown-client"), cost)
			if err != nil {
				return ""
			}
			return string(h)
		}),
	}
}

// Authenticate checks a client name and secret. Unknown clients and wrong
// secrets both return ErrInvalidCredentials after the same bcrypt work.
func (r *ClientRegistry) Authenticate(name, secret string) error {
	hash, ok := r.hashes[name]
	if !ok {
		r.compare(r.unknown(), secret)
		return ErrInvalidCredentials
	}
	if err := r.compare(hash, secret); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Len returns the number of configured clients.
func (r *ClientRegistry) Len() int {
	return len(r.hashes)
}
