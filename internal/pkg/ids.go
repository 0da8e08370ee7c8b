package pkg

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrInvalidIDLength = errors.New("room id length must be positive")

// GenerateRoomID - generates a short uppercase alphanumeric room code.
func GenerateRoomID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidIDLength, length)
	}

	alphabetLen := big.NewInt(int64(len(roomIDAlphabet)))

	id := make([]byte, length)
	for i := range id {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}

		id[i] = roomIDAlphabet[n.Int64()]
	}

	return string(id), nil
}

// RoomIDGenerator - binds the length for callers that only need a generator.
func RoomIDGenerator(length int) func() (string, error) {
	return func() (string, error) {
		return GenerateRoomID(length)
	}
}

// GenerateConnectionID - generates an opaque identifier for one connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
