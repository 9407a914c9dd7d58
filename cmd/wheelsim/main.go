// Standalone fairness simulation for the crypto roulette wheel.
// Spins the provably fair derivation many times and reports hit rates and
// return-to-player per bet.
package main

import (
	"flag"
	"fmt"
	"math"

	"gemwheel/domain/entities"
	"gemwheel/domain/services"

	log "github.com/sirupsen/logrus"
)

type sampleBet struct {
	betType  entities.BetType
	betValue string
}

var sampleBets = []sampleBet{
	{entities.BetTypeSingleCrypto, "BTC"},
	{entities.BetTypeCryptoColor, "red"},
	{entities.BetTypeCryptoColor, "green"},
	{entities.BetTypeCryptoCategory, "meme"},
	{entities.BetTypeEvenOdd, "even"},
	{entities.BetTypeHighLow, "low"},
	{entities.BetTypeDozen, "second"},
	{entities.BetTypeColumn, "3"},
}

func main() {
	spins := flag.Int("spins", 200000, "number of rounds to simulate")
	clientSeed := flag.String("client-seed", "wheelsim", "client seed used for every round")
	flag.Parse()

	serverSeed, err := services.GenerateServerSeed()
	if err != nil {
		log.WithError(err).Fatal("Failed to generate server seed")
	}

	fmt.Println("=== Crypto Roulette Fairness Simulation ===")
	fmt.Printf("Server seed hash: %s\n", services.HashServerSeed(serverSeed))
	fmt.Printf("Rounds: %d\n\n", *spins)

	counts := make([]int, services.WheelSize)
	for nonce := 0; nonce < *spins; nonce++ {
		counts[services.DeriveWinningNumber(serverSeed, *clientSeed, int64(nonce))]++
	}

	reportDistribution(counts, *spins)
	fmt.Println()
	reportBets(counts, *spins)
}

// reportDistribution prints the chi-square statistic of the slot counts
// against a uniform wheel
func reportDistribution(counts []int, spins int) {
	expected := float64(spins) / float64(len(counts))
	chiSquare := 0.0
	minCount, maxCount := math.MaxInt, 0
	for _, c := range counts {
		d := float64(c) - expected
		chiSquare += d * d / expected
		minCount = min(minCount, c)
		maxCount = max(maxCount, c)
	}

	fmt.Println("--- Slot distribution ---")
	fmt.Printf("Expected per slot: %.1f (min %d, max %d)\n", expected, minCount, maxCount)
	// 36 degrees of freedom; 58.62 is the 1% critical value
	fmt.Printf("Chi-square (df=%d): %.2f", len(counts)-1, chiSquare)
	if chiSquare > 58.62 {
		fmt.Println("  <-- SUSPICIOUS")
	} else {
		fmt.Println("  ok")
	}
}

func reportBets(counts []int, spins int) {
	fmt.Println("--- Bets ---")
	fmt.Printf("%-16s %-8s %8s %10s %10s %8s\n", "type", "value", "odds", "expected", "actual", "RTP")

	for _, bet := range sampleBets {
		value, odds, err := services.ResolveBet(bet.betType, bet.betValue)
		if err != nil {
			log.WithError(err).WithField("betType", bet.betType).Fatal("Sample bet rejected")
		}

		winningSlots, wins := 0, 0
		for _, p := range services.WheelPositions() {
			if services.BetWins(bet.betType, value, p) {
				winningSlots++
				wins += counts[p.Number]
			}
		}

		expectedRate := float64(winningSlots) / float64(services.WheelSize)
		actualRate := float64(wins) / float64(spins)
		rtp := actualRate * odds.InexactFloat64()

		fmt.Printf("%-16s %-8s %8s %9.3f%% %9.3f%% %7.2f%%\n",
			bet.betType, value, odds.String(), expectedRate*100, actualRate*100, rtp*100)
	}
}
