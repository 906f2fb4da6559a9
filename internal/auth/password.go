package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordScore - one point per satisfied rule
const MaxPasswordScore = 5

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordStrength scores 0-5: length >= 8, lowercase, uppercase, digit, special character.
func PasswordStrength(password string) int {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			special = true
		}
	}

	score := 0
	for _, ok := range []bool{len([]rune(password)) >= 8, lower, upper, digit, special} {
		if ok {
			score++
		}
	}
	return score
}

// StrengthLabel is the meter caption for a score
func StrengthLabel(score int) string {
	switch {
	case score <= 1:
		return "very weak"
	case score == 2:
		return "weak"
	case score == 3:
		return "fair"
	case score == 4:
		return "good"
	default:
		return "strong"
	}
}

var ErrPasswordTooWeak = errors.New("password is too weak")

// ValidatePassword requires at least minScore points
func ValidatePassword(password string, minScore int) error {
	if PasswordStrength(password) < minScore {
		return ErrPasswordTooWeak
	}
	return nil
}

const (
	lowerChars   = "abcdefghijkmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars   = "23456789"
	specialChars = "!@#$%^&*-_+="
)

// GenerateTemporaryPassword returns a random password that always scores MaxPasswordScore.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	all := lowerChars + upperChars + digitChars + specialChars

	buf := make([]byte, length)
	for i, set := range []string{lowerChars, upperChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}
	for i := 4; i < length; i++ {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}

	// shuffle so the class positions are not fixed
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		buf[i], buf[j.Int64()] = buf[j.Int64()], buf[i]
	}
	return string(buf), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
