package utils

import (
	"github.com/ztrue/tracerr"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/exp/constraints"
	"golang.org/x/text/unicode/norm"
	"regexp"
	"strings"
)

var (
	// ErrorStorageKeyPassphraseEmpty is returned when deriving a storage key from an empty passphrase
	ErrorStorageKeyPassphraseEmpty = NewDriveError("STORAGE_KEY_PASSPHRASE_EMPTY", "passphrase must not be empty")
)

var (
	emailRegexp = regexp.MustCompile("^[a-zA-Z0-9_.+-]+@([a-zA-Z0-9-]+\\.)+[a-zA-Z0-9-]{2,}$")
)

func IsEmail(email string) bool {
	lowerCaseEmail := strings.ToLower(email)
	return emailRegexp.MatchString(lowerCaseEmail)
}

// NormalizeString returns the NFKC normalization of s, so that strings
// which render identically compare identically.
func NormalizeString(s string) string {
	return norm.NFKC.String(s)
}

// DeriveStorageKey derives a 32-byte key from a passphrase and a salt,
// suitable for FileStorage at-rest encryption.
func DeriveStorageKey(passphrase string, salt string) ([]byte, error) {
	if passphrase == "" {
		return nil, tracerr.Wrap(ErrorStorageKeyPassphraseEmpty)
	}
	N := 16384
	r := 8
	p := 1
	key, err := scrypt.Key([]byte(NormalizeString(passphrase)), []byte(NormalizeString(salt)), N, r, p, 32)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return key, nil
}

// Set implements three methods: Add, Remove & Has.
// It needs to be defined with a comparable generic type such as int or string.
// The len operator can be used on Set.
type Set[T comparable] map[T]struct{}

// Add adds the given element to the Set.
func (s Set[T]) Add(element T) {
	s[element] = struct{}{}
}

// Remove removes given element from Set. If element is not in Set, Remove is a no-op.
func (s Set[T]) Remove(element T) {
	delete(s, element)
}

// Has checks if element is in Set, and returns true or false.
func (s Set[T]) Has(element T) bool {
	_, ok := s[element]
	return ok
}

func SliceMap[T interface{}, U interface{}](s []T, f func(T) U) []U {
	output := make([]U, len(s))
	for i, e := range s {
		output[i] = f(e)
	}
	return output
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Ternary is a helper function to inline ternary operations
func Ternary[T any](condition bool, valTrue T, valFalse T) T {
	if condition {
		return valTrue
	}
	return valFalse
}
