// internal/sources/exchangerate/exchangerate.go
package exchangerate

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"finsight/internal/core/ports"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/httpclient"
	"finsight/internal/platform/logx"
)

const baseURL = "https://api.exchangerate.host/convert"

// Client es el cliente del proveedor de tipos de cambio. Solo sirve al
// endpoint pass-through de forex; no participa en el fan-out de
// noticias.
type Client struct {
	client *httpclient.Client
	apiKey string
	logger logx.Logger
}

// Rate es un tipo de cambio puntual entre dos divisas.
type Rate struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// New crea un nuevo cliente de exchangerate.
func New(cfg ports.SourceConfig, logger logx.Logger) *Client {
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}

	return &Client{
		client: httpclient.New(httpCfg, logger),
		apiKey: cfg.APIKey,
		logger: logger.With("source", "exchangerate"),
	}
}

// GetRate trae el tipo de cambio from -> to.
func (c *Client) GetRate(ctx context.Context, from, to string) (*Rate, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if len(from) != 3 || len(to) != 3 {
		return nil, errors.Errorf("invalid currency pair %q/%q", from, to)
	}

	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)
	if c.apiKey != "" {
		params.Set("access_key", c.apiKey)
	}

	body, err := c.client.FetchJSON(ctx, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "exchangerate request failed")
	}

	var resp struct {
		Success bool `json:"success"`
		Info    struct {
			Rate float64 `json:"rate"`
		} `json:"info"`
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	if !resp.Success || resp.Result == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "no rate for %s/%s", from, to)
	}

	return &Rate{
		From:      from,
		To:        to,
		Rate:      resp.Result,
		FetchedAt: time.Now().UTC(),
	}, nil
}
