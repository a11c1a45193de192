// Package deepl implements the translator contract against the DeepL REST
// API.
package deepl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/Colman1000/tongues-of-fire/internal/translator"
)

const defaultBaseURL = "https://api-free.deepl.com"

// Client calls the DeepL v2 translate endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	limiter *rate.Limiter
}

// Options configures the DeepL client.
type Options struct {
	BaseURL string
	APIKey  string
	// RateLimitRPM caps outgoing requests per minute. Zero disables the
	// limiter.
	RateLimitRPM int
}

// New creates a DeepL client.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(opts.APIKey),
		http: resty.New().
			SetTimeout(60 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(1 * time.Second),
	}
	if opts.RateLimitRPM > 0 {
		rps := float64(opts.RateLimitRPM) / 60.0
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate sends text to DeepL and returns the translated text.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if targetLang == "" {
		return "", fmt.Errorf("target language is required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	form := map[string]string{
		"text":        text,
		"target_lang": strings.ToUpper(targetLang),
	}
	if sourceLang != "" {
		form["source_lang"] = strings.ToUpper(sourceLang)
	}

	var out translateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+c.apiKey).
		SetFormData(form).
		SetResult(&out).
		Post(c.baseURL + "/v2/translate")
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("deepl error status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if len(out.Translations) == 0 {
		return "", fmt.Errorf("deepl returned no translations")
	}
	return out.Translations[0].Text, nil
}

var _ translator.Client = (*Client)(nil)
