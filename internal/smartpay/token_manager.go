package smartpay

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/domain/token"
	"github.com/idrissabarry/vendgate/internal/infrastructure/config"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

const actionGetVerifyCode = "get_verify_code"

// Manager owns the gateway session token lifecycle: it serves the cached
// active token while it has useful life left and transparently requests a
// new one otherwise.
//
// Refresh is deliberately not lock-protected: two racing refreshes may both
// succeed, each deactivating the other's token, and the last committed write
// wins. "Exactly one active token" still holds because deactivate+insert is
// a single transaction. A refresh storm under very high concurrency is a
// known sharp edge.
type Manager struct {
	repo         token.Repository
	tp           *transport
	expiryHours  int
	tokenTimeout time.Duration
	metrics      *observability.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

// NewManager creates a token Manager for the configured gateway.
func NewManager(cfg config.SmartPayConfig, repo token.Repository, metrics *observability.Metrics, logger zerolog.Logger) *Manager {
	signer := NewSigner(cfg.User, cfg.Password, cfg.SignType)
	return &Manager{
		repo:         repo,
		tp:           newTransport(cfg.BaseURL, signer, metrics, logger),
		expiryHours:  cfg.TokenExpiryHours,
		tokenTimeout: cfg.TokenTimeout,
		metrics:      metrics,
		logger:       logger.With().Str("component", "token_manager").Logger(),
		now:          time.Now,
	}
}

// ActiveToken returns a stored active token that will outlive the five
// minute safety buffer, requesting a fresh one when none qualifies.
func (m *Manager) ActiveToken(ctx context.Context) (*token.SessionToken, error) {
	active, err := m.repo.ActiveTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active tokens: %w", err)
	}

	now := m.now()
	for _, tok := range active {
		if tok.Usable(now) {
			return tok, nil
		}
	}

	return m.Refresh(ctx)
}

// Refresh requests a new session token from the gateway and stores it as the
// single active token. On any failure nothing is mutated.
func (m *Manager) Refresh(ctx context.Context) (*token.SessionToken, error) {
	params := map[string]any{"hours": m.expiryHours}

	// Token issuance is signed with an empty token value.
	resp, err := m.tp.do(ctx, actionGetVerifyCode, CategoryNone, params, "", m.tokenTimeout)
	if err != nil {
		m.metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrTokenIssuance, err)
	}

	if state, ok := resp.State(); !ok || state != stateSuccess {
		m.metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		m.logger.Error().Interface("state", resp["state"]).Msg("token issuance rejected")
		return nil, fmt.Errorf("%w: gateway state %v", domainErrors.ErrTokenIssuance, resp["state"])
	}

	tok, err := tokenFromResponse(resp)
	if err != nil {
		m.metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrTokenIssuance, err)
	}

	if err := m.repo.ReplaceActive(ctx, tok); err != nil {
		m.metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: store token: %v", domainErrors.ErrTokenIssuance, err)
	}

	m.metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	m.logger.Info().Time("end_time", tok.EndTime).Msg("gateway token refreshed")
	return tok, nil
}

// IsExpired reports whether tok has reached its end time. The safety buffer
// only applies to ActiveToken's proactive refresh decision, not here.
func (m *Manager) IsExpired(tok *token.SessionToken) bool {
	return tok.IsExpired(m.now())
}

func tokenFromResponse(resp Response) (*token.SessionToken, error) {
	value, _ := resp["tokens"].(string)
	if value == "" {
		return nil, fmt.Errorf("response missing tokens field")
	}
	seed, _ := resp["seed"].(string)

	startRaw, _ := resp["start_time"].(string)
	endRaw, _ := resp["end_time"].(string)
	start, err := parseGatewayTime(startRaw)
	if err != nil {
		return nil, fmt.Errorf("parse start_time: %w", err)
	}
	end, err := parseGatewayTime(endRaw)
	if err != nil {
		return nil, fmt.Errorf("parse end_time: %w", err)
	}

	return &token.SessionToken{
		Token:     value,
		Seed:      seed,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}, nil
}

// gatewayTimeLayouts are the timestamp shapes the gateway has been seen to
// emit.
var gatewayTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseGatewayTime(s string) (time.Time, error) {
	for _, layout := range gatewayTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
