package services

import (
	"fmt"
	"strings"
	"testing"

	"gemwheel/domain/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateServerSeed(t *testing.T) {
	a, err := GenerateServerSeed()
	require.NoError(t, err)
	b, err := GenerateServerSeed()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHashServerSeed(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashServerSeed("abc"))
	assert.NotEqual(t, HashServerSeed("abc"), HashServerSeed("abd"))
}

func TestGenerateClientSeed(t *testing.T) {
	t.Run("uses trimmed input", func(t *testing.T) {
		seed, err := GenerateClientSeed("  lucky  ")
		require.NoError(t, err)
		assert.Equal(t, "lucky", seed)
	})

	t.Run("random when empty", func(t *testing.T) {
		a, err := GenerateClientSeed("")
		require.NoError(t, err)
		b, err := GenerateClientSeed("   ")
		require.NoError(t, err)
		assert.Len(t, a, 32)
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects long input", func(t *testing.T) {
		_, err := GenerateClientSeed(strings.Repeat("x", 65))
		assert.True(t, common.IsValidation(err))
	})
}

func TestDeriveWinningNumber_Deterministic(t *testing.T) {
	first := DeriveWinningNumber("server", "client", 1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveWinningNumber("server", "client", 1))
	}
}

func TestDeriveWinningNumber_InputsMatter(t *testing.T) {
	// Over many nonces, changing any one input must change some results
	var serverDiff, clientDiff, nonceDiff int
	for n := int64(1); n <= 200; n++ {
		base := DeriveWinningNumber("server", "client", n)
		if base != DeriveWinningNumber("server2", "client", n) {
			serverDiff++
		}
		if base != DeriveWinningNumber("server", "client2", n) {
			clientDiff++
		}
		if base != DeriveWinningNumber("server", "client", n+1000) {
			nonceDiff++
		}
	}
	assert.Greater(t, serverDiff, 150)
	assert.Greater(t, clientDiff, 150)
	assert.Greater(t, nonceDiff, 150)
}

func TestDeriveWinningNumber_CoversWheel(t *testing.T) {
	seen := make(map[int]int)
	for n := int64(0); n < 5000; n++ {
		v := DeriveWinningNumber("coverage-seed", "client", n)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, WheelSize)
		seen[v]++
	}
	assert.Len(t, seen, WheelSize)
	for number, hits := range seen {
		// Expected ~135 per slot; a very loose band still catches a broken mapping
		assert.Greater(t, hits, 60, "position %d", number)
		assert.Less(t, hits, 240, "position %d", number)
	}
}

func TestVerifyRound(t *testing.T) {
	seed := "4f2d0c9b7e"
	hash := HashServerSeed(seed)
	number := DeriveWinningNumber(seed, "client", 3)

	t.Run("valid round", func(t *testing.T) {
		assert.NoError(t, VerifyRound(seed, hash, "client", 3, number))
		assert.NoError(t, VerifyRound(seed, strings.ToUpper(hash), "client", 3, number))
	})

	t.Run("tampered seed", func(t *testing.T) {
		err := VerifyRound(seed+"0", hash, "client", 3, number)
		assert.True(t, common.IsIntegrityFailure(err))
	})

	t.Run("tampered number", func(t *testing.T) {
		err := VerifyRound(seed, hash, "client", 3, (number+1)%WheelSize)
		assert.True(t, common.IsIntegrityFailure(err))
	})

	t.Run("wrong nonce", func(t *testing.T) {
		// Find a nonce whose result differs so the check is meaningful
		for n := int64(4); n < 100; n++ {
			if DeriveWinningNumber(seed, "client", n) != number {
				err := VerifyRound(seed, hash, "client", n, number)
				assert.True(t, common.IsIntegrityFailure(err), fmt.Sprintf("nonce %d", n))
				return
			}
		}
		t.Fatal("no differing nonce found")
	})

	t.Run("missing seed fails closed", func(t *testing.T) {
		err := VerifyRound("", hash, "client", 3, number)
		assert.True(t, common.IsIntegrityFailure(err))
	})
}
