package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gemwheel/domain/interfaces"
	"gemwheel/infrastructure/observability"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// coinIDs maps wheel symbols to market data coin ids
var coinIDs = map[string]string{
	"BTC": "bitcoin", "ETH": "ethereum", "SOL": "solana", "ADA": "cardano", "AVAX": "avalanche-2", "DOT": "polkadot",
	"UNI": "uniswap", "AAVE": "aave", "LINK": "chainlink", "MKR": "maker", "CRV": "curve-dao-token", "COMP": "compound-governance-token",
	"DOGE": "dogecoin", "SHIB": "shiba-inu", "PEPE": "pepe", "FLOKI": "floki", "BONK": "bonk", "WIF": "dogwifcoin",
	"MATIC": "matic-network", "ARB": "arbitrum", "OP": "optimism", "IMX": "immutable-x", "STRK": "starknet", "MNT": "mantle",
	"BNB": "binancecoin", "OKB": "okb", "CRO": "crypto-com-chain", "LEO": "leo-token", "KCS": "kucoin-shares", "GT": "gatechain-token",
	"XMR": "monero", "ZEC": "zcash", "DASH": "dash", "SCRT": "secret", "ROSE": "oasis-network", "DCR": "decred",
	"USDT": "tether",
}

// CoinID resolves a wheel symbol to its coin id; unknown input is passed through lowercased
func CoinID(symbol string) string {
	if id, ok := coinIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// MarketDataClient fetches USD spot prices over HTTP
type MarketDataClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMarketDataClient creates a client bounded by timeout per request
func NewMarketDataClient(baseURL string, timeout time.Duration) interfaces.MarketDataProvider {
	return &MarketDataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetCurrentPrice returns the USD price of symbol, or nil when unavailable
func (c *MarketDataClient) GetCurrentPrice(ctx context.Context, symbol string) *decimal.Decimal {
	price, err := c.fetch(ctx, CoinID(symbol))
	if err != nil {
		observability.GetMetrics().RecordMarketLookup(observability.LookupUnavailable)
		log.WithFields(log.Fields{
			"symbol": symbol,
			"error":  err,
		}).Warn("Market price unavailable")
		return nil
	}
	observability.GetMetrics().RecordMarketLookup(observability.LookupFetched)
	return price
}

func (c *MarketDataClient) fetch(ctx context.Context, coinID string) (*decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(coinID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data returned status %d", resp.StatusCode)
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	price, ok := body[coinID]["usd"]
	if !ok {
		return nil, fmt.Errorf("no usd price for %s", coinID)
	}
	return &price, nil
}
