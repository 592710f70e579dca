package smartpay

import (
	"context"
	"time"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/domain/token"
	"github.com/idrissabarry/vendgate/internal/infrastructure/config"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// TokenProvider supplies the current gateway session token and refreshes it
// on demand. It is injected rather than held as process state so every
// instance shares the same source of truth.
type TokenProvider interface {
	ActiveToken(ctx context.Context) (*token.SessionToken, error)
	Refresh(ctx context.Context) (*token.SessionToken, error)
}

// Client issues signed operations against the SmartPay gateway. Token expiry
// reported mid-flight triggers exactly one refresh-and-retry per logical
// call; the allowRetry flag makes the bound structural.
type Client struct {
	tp             *transport
	tokens         TokenProvider
	requestTimeout time.Duration
	defaultChannel string
	logger         zerolog.Logger
}

// NewClient creates a gateway client using tokens for session management.
func NewClient(cfg config.SmartPayConfig, tokens TokenProvider, metrics *observability.Metrics, logger zerolog.Logger) *Client {
	signer := NewSigner(cfg.User, cfg.Password, cfg.SignType)
	return &Client{
		tp:             newTransport(cfg.BaseURL, signer, metrics, logger),
		tokens:         tokens,
		requestTimeout: cfg.RequestTimeout,
		defaultChannel: cfg.DefaultChannel,
		logger:         logger.With().Str("component", "smartpay_client").Logger(),
	}
}

// Call performs one signed gateway operation. On success the raw decoded
// body is returned. A non-success gateway state (other than the single
// permitted token-expiry retry) returns the body together with a
// *errors.GatewayError so callers can pass the payload through.
func (c *Client) Call(ctx context.Context, action, category string, params map[string]any, allowRetry bool) (Response, error) {
	tok, err := c.tokens.ActiveToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.tp.do(ctx, action, category, params, tok.Token, c.requestTimeout)
	if err != nil {
		return nil, err
	}

	state, ok := resp.State()
	if ok && state == stateTokenExpired && allowRetry {
		c.logger.Warn().Str("action", action).Msg("gateway reported token expired, refreshing once")
		if _, err := c.tokens.Refresh(ctx); err != nil {
			return nil, err
		}
		return c.Call(ctx, action, category, params, false)
	}

	if ok && state != stateSuccess {
		return resp, domainErrors.NewGatewayError(action, state, resp)
	}

	return resp, nil
}
