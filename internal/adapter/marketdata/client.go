package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// Client fetches per-instrument market fundamentals over HTTP. It implements
// the analyzer's fundamentals source: absent payload fields become zero in
// the snapshot, never an error.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new market data client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// QuoteSymbol converts a stored ticker to the data provider's symbol.
// Crypto tickers quote against BRL; everything else is a B3 listing and
// takes the .SA suffix unless it already carries one.
func QuoteSymbol(ticker string, category domain.Category) string {
	if category == domain.CategoryCrypto {
		return ticker + "-BRL"
	}

	if strings.HasSuffix(ticker, ".SA") {
		return ticker
	}

	return ticker + ".SA"
}

// quoteResponse represents the provider's quote API payload
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// Fundamentals fetches the fundamentals snapshot for one instrument
func (c *Client) Fundamentals(ctx context.Context, ticker string, category domain.Category) (domain.FundamentalsSnapshot, error) {
	symbol := QuoteSymbol(ticker, category)

	info, err := c.getQuoteInfo(ctx, symbol)
	if err != nil {
		return domain.FundamentalsSnapshot{}, fmt.Errorf("failed to get quote info: %w", err)
	}

	price := getDecimal(info, "regularMarketPrice")
	if price.IsZero() {
		price = getDecimal(info, "currentPrice")
	}

	return domain.FundamentalsSnapshot{
		Price:          price,
		TrailingPE:     getDecimal(info, "trailingPE"),
		PriceToBook:    getDecimal(info, "priceToBook"),
		DividendYield:  getDecimal(info, "dividendYield"),
		ReturnOnEquity: getDecimal(info, "returnOnEquity"),
		DebtToEquity:   getDecimal(info, "debtToEquity"),
	}, nil
}

// getQuoteInfo fetches quote information from the provider's quote API
func (c *Client) getQuoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,currentPrice,trailingPE,priceToBook,"+
		"dividendYield,returnOnEquity,debtToEquity")

	reqURL := c.baseURL + "/v7/finance/quote?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quote API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}

	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// getDecimal extracts a numeric field from the payload, returning zero when
// the field is absent or not a number
func getDecimal(info map[string]interface{}, key string) decimal.Decimal {
	value, ok := info[key]
	if !ok {
		return decimal.Zero
	}

	number, ok := value.(float64)
	if !ok {
		return decimal.Zero
	}

	return decimal.NewFromFloat(number)
}
