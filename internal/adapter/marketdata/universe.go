package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmoura/financo-backend/internal/usecase/screener"
)

// UniverseClient fetches the bulk market fundamentals table used by the
// screener. The provider serves numeric fields as locale-formatted strings;
// rows are passed through raw and the screener owns the parsing.
type UniverseClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewUniverseClient creates a new universe client
func NewUniverseClient(baseURL string, log zerolog.Logger) *UniverseClient {
	return &UniverseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "universe").Logger(),
	}
}

// universeRow represents one row of the provider's bulk table
type universeRow struct {
	Ticker        string `json:"papel"`
	Sector        string `json:"setor"`
	Price         string `json:"cotacao"`
	PE            string `json:"pl"`
	PB            string `json:"pvp"`
	DividendYield string `json:"dy"`
	ROE           string `json:"roe"`
	Liquidity     string `json:"liquidez"`
}

// Universe fetches the full raw fundamentals table
func (c *UniverseClient) Universe(ctx context.Context) ([]screener.RawRow, error) {
	reqURL := c.baseURL + "/resultado"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch universe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("universe API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload []universeRow
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse universe payload: %w", err)
	}

	rows := make([]screener.RawRow, 0, len(payload))
	for _, row := range payload {
		rows = append(rows, screener.RawRow{
			Ticker:        row.Ticker,
			Sector:        row.Sector,
			Price:         row.Price,
			PE:            row.PE,
			PB:            row.PB,
			DividendYield: row.DividendYield,
			ROE:           row.ROE,
			Liquidity:     row.Liquidity,
		})
	}

	c.log.Debug().Int("rows", len(rows)).Msg("Universe table fetched")

	return rows, nil
}
