package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"gemwheel/domain/common"

	"github.com/google/uuid"
)

const (
	// WheelSize is the number of positions on the wheel (0..36)
	WheelSize = 37

	serverSeedBytes     = 32
	maxClientSeedLength = 64
)

// acceptLimit is the largest multiple of WheelSize that fits in a uint32.
// Chunks at or above it are rejected to keep the mapping uniform.
const acceptLimit = (1 << 32) / WheelSize * WheelSize

// GenerateServerSeed returns a fresh secret seed as hex
func GenerateServerSeed() (string, error) {
	buf := make([]byte, serverSeedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashServerSeed returns the public commitment for a server seed
func HashServerSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// GenerateClientSeed uses the caller's input when present, otherwise a random one
func GenerateClientSeed(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input != "" {
		if len(input) > maxClientSeedLength {
			return "", common.NewValidationError(fmt.Sprintf("client seed must be at most %d characters", maxClientSeedLength))
		}
		return input, nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate client seed: %w", err)
	}
	return hex.EncodeToString(id[:]), nil
}

// DeriveWinningNumber maps (serverSeed, clientSeed, nonce) onto a wheel position.
// Each round's HMAC digest is read as eight big-endian uint32 chunks and the
// first chunk below acceptLimit wins.
func DeriveWinningNumber(serverSeed, clientSeed string, nonce int64) int {
	for round := 0; ; round++ {
		mac := hmac.New(sha256.New, []byte(serverSeed))
		fmt.Fprintf(mac, "%s:%d:%d", clientSeed, nonce, round)
		digest := mac.Sum(nil)

		for i := 0; i+4 <= len(digest); i += 4 {
			chunk := binary.BigEndian.Uint32(digest[i : i+4])
			if chunk < acceptLimit {
				return int(chunk % WheelSize)
			}
		}
	}
}

// VerifyRound recomputes the commitment and the result. Any mismatch is an
// integrity failure; verification never passes by default.
func VerifyRound(serverSeed, serverSeedHash, clientSeed string, nonce int64, winningNumber int) error {
	if serverSeed == "" || serverSeedHash == "" {
		return common.NewIntegrityFailure(nil, "verification attempted without seed or commitment")
	}

	if !hmac.Equal([]byte(HashServerSeed(serverSeed)), []byte(strings.ToLower(serverSeedHash))) {
		return common.NewIntegrityFailure(nil, fmt.Sprintf("server seed does not match commitment %s", serverSeedHash))
	}

	if derived := DeriveWinningNumber(serverSeed, clientSeed, nonce); derived != winningNumber {
		return common.NewIntegrityFailure(nil,
			fmt.Sprintf("recorded winning number %d does not match derived %d for nonce %d", winningNumber, derived, nonce))
	}
	return nil
}
