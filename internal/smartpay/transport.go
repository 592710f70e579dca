package smartpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Operation categories, sent as the query parameter "type".
const (
	CategoryNone    = ""    // account-level operations
	CategoryPrepay  = "ppe" // prepayment meters
	CategoryPostpay = "pps" // postpayment bills
)

// Gateway state codes.
const (
	stateSuccess      = 0
	stateTokenExpired = -95131
)

const protocolVersion = 0

// Response is the raw decoded gateway response body. Callers interpret
// gateway-specific fields such as "state", "trans_id" or "tokens".
type Response map[string]any

// State extracts the gateway state code from a response. The zero value with
// ok=false means the field was missing or unreadable.
func (r Response) State() (int, bool) {
	v, present := r["state"]
	if !present {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// transport owns the signed HTTP exchange with the gateway: it builds the
// SignedRequest envelope (version, user, seed, params, sign, sign_type),
// posts it and decodes the reply. Outbound calls flow through a circuit
// breaker so a struggling gateway sheds load instead of piling up timeouts.
type transport struct {
	baseURL    string
	signer     *Signer
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[Response]
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

func newTransport(baseURL string, signer *Signer, metrics *observability.Metrics, logger zerolog.Logger) *transport {
	t := &transport{
		baseURL:    baseURL,
		signer:     signer,
		httpClient: &http.Client{},
		metrics:    metrics,
		logger:     logger.With().Str("component", "smartpay").Logger(),
	}

	t.breaker = gobreaker.NewCircuitBreaker[Response](gobreaker.Settings{
		Name:        "smartpay",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			t.metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return t
}

// do performs one signed gateway call and returns the decoded body. The body
// is returned whatever the gateway's state code says; only transport-level
// failures (non-200, network, decode) are errors here.
func (t *transport) do(ctx context.Context, action, category string, params map[string]any, tokenValue string, timeout time.Duration) (Response, error) {
	seed := GenerateSeed()

	body := map[string]any{
		"version": protocolVersion,
		"user":    t.signer.User,
		"seed":    seed,
	}
	for k, v := range params {
		body[k] = v
	}

	sign, err := t.signer.Sign(body, seed, tokenValue)
	if err != nil {
		return nil, err
	}
	body["sign"] = sign
	body["sign_type"] = t.signer.SignType

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/interface?type=%s&action=%s",
		t.baseURL, url.QueryEscape(category), url.QueryEscape(action))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := t.breaker.Execute(func() (Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		httpResp, err := t.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayTransport, err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domainErrors.ErrGatewayTransport, httpResp.StatusCode)
		}

		var decoded Response
		if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domainErrors.ErrGatewayTransport, err)
		}
		return decoded, nil
	})
	duration := time.Since(start)

	t.metrics.GatewayRequestDuration.WithLabelValues(action).Observe(duration.Seconds())
	if err != nil {
		t.metrics.GatewayRequestsTotal.WithLabelValues(action, "error").Inc()
		t.metrics.GatewayErrors.WithLabelValues(action, "transport").Inc()
		t.logger.Error().Err(err).Str("action", action).Dur("duration", duration).Msg("gateway request failed")
		return nil, err
	}

	t.metrics.GatewayRequestsTotal.WithLabelValues(action, "ok").Inc()
	return resp, nil
}
