package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/marketdata"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/config"
)

var httpClient = &http.Client{
	Timeout: time.Second * 30,
}

// Client fetches the day-ahead price payload from the price API.
type Client struct {
	config *config.CliConfig
}

func New(config *config.CliConfig) *Client {
	return &Client{config: config}
}

func (c *Client) Fetch(ctx context.Context) ([]marketdata.Marketprice, error) {
	u := fmt.Sprintf("%s%s", c.config.Server, c.config.PricePath)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.config.Token(); token != "" {
		req.Header.Add("Authorization", token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("error fetching marketdata StatusCode: %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return marketdata.FromPayload(b)
}
