package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeClient creates payment intents against the Stripe HTTP API. The
// gateway is the slowest, least reliable dependency in the booking flow, so
// every call carries a timeout and transient failures are retried with
// exponential backoff.
type StripeClient struct {
	baseURL    string
	secretKey  string
	currency   string
	httpClient *http.Client
	retry      RetryPolicy
}

type StripeConfig struct {
	BaseURL    string
	SecretKey  string
	Currency   string
	Timeout    time.Duration
	MaxRetries int
}

// PaymentIntent is the subset of Stripe's payment-intent object the booking
// flow needs.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeClient(cfg StripeConfig) *StripeClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}

	return &StripeClient{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		currency:  cfg.Currency,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retry: RetryPolicy{
			MaxRetries:    cfg.MaxRetries,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			BackoffFactor: 2,
		},
	}
}

// CreateIntent creates a payment intent for the given amount in minor
// currency units, tagged with the booking reference, and returns the
// client secret the frontend confirms against.
func (sc *StripeClient) CreateIntent(ctx context.Context, amountMinorUnits int64, bookingReference string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinorUnits, 10))
	form.Set("currency", sc.currency)
	form.Set("metadata[bookingReference]", bookingReference)

	var lastErr error
	for attempt := 1; attempt <= sc.retry.MaxRetries; attempt++ {
		intent, retryable, err := sc.postIntent(ctx, form)
		if err == nil {
			return intent.ClientSecret, nil
		}

		lastErr = err
		if !retryable {
			return "", err
		}

		if attempt < sc.retry.MaxRetries {
			delay := sc.retry.NextDelay(attempt)
			slog.Warn("Payment gateway call failed, retrying",
				"attempt", attempt, "delay", delay, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("payment intent creation failed after %d attempts: %w",
		sc.retry.MaxRetries, lastErr)
}

// postIntent performs one attempt. The second return value reports whether
// the failure is worth retrying: network errors and 429/5xx are, request
// errors (4xx) are not.
func (sc *StripeClient) postIntent(ctx context.Context, form url.Values) (*PaymentIntent, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		sc.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sc.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var gatewayErr stripeError
		msg := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		if json.Unmarshal(body, &gatewayErr) == nil && gatewayErr.Error.Message != "" {
			msg = gatewayErr.Error.Message
		}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("payment intent rejected: %s", msg)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, false, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if intent.ClientSecret == "" {
		return nil, false, fmt.Errorf("gateway response missing client secret")
	}

	return &intent, false, nil
}
