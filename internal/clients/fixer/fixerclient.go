package fixer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"
)

const (
	defaultBaseURL = "https://api.apilayer.com/fixer"
	latestRatesURL = "/latest"
	baseParam      = "base"
	relativesParam = "symbols"
	requestTimeout = 30 * time.Second
)

type config interface {
	ApiKey() string
	BaseURL() string
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type ratesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Error     *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func New(config config) *Client {
	baseURL := config.BaseURL()
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  config.ApiKey(),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// GetRates returns how many units of every relative currency one unit of
// base buys.
func (c *Client) GetRates(ctx context.Context, baseRate string, relativeRates []string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+latestRatesURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	req.Header.Set("apikey", c.apiKey)
	q := req.URL.Query()
	q.Add(baseParam, baseRate)
	q.Add(relativesParam, strings.Join(relativeRates, ","))
	req.URL.RawQuery = q.Encode()

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "requesting rates")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	logger.Debug("new response from fixer", zap.Int("status", res.StatusCode), zap.ByteString("body", body))

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fixer responded with status %d", res.StatusCode)
	}

	rates := ratesResponse{}
	err = json.Unmarshal(body, &rates)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling response")
	}

	if !rates.Success {
		if rates.Error != nil {
			return nil, errors.Errorf("error from fixer: %s", rates.Error.Info)
		}
		return nil, errors.New("error from fixer (success = false)")
	}

	return rates.Rates, nil
}
