package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/idrissabarry/vendgate/internal/domain/audit"
	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/domain/token"
	"github.com/idrissabarry/vendgate/internal/smartpay"
	"github.com/rs/zerolog"
)

// Operation types used in resource lock keys.
const (
	opSellPower = "sell_power"
	opPayArrear = "pay_arrear"
	opPayBill   = "pay_bill"
	opTransfer  = "transfer"
)

// VendingService orchestrates SmartPay operations: money-moving calls go
// through the transaction guard and leave exactly one audit record per
// attempt; inquiries pass straight through to the gateway.
type VendingService struct {
	gateway Gateway
	tokens  smartpay.TokenProvider
	guard   *Guard
	sink    audit.Sink
	logger  zerolog.Logger
}

// NewVendingService creates a VendingService.
func NewVendingService(gateway Gateway, tokens smartpay.TokenProvider, guard *Guard, sink audit.Sink, logger zerolog.Logger) *VendingService {
	return &VendingService{
		gateway: gateway,
		tokens:  tokens,
		guard:   guard,
		sink:    sink,
		logger:  logger.With().Str("component", "vending_service").Logger(),
	}
}

// TokenStatus returns the current active session token, refreshing if none
// is usable.
func (s *VendingService) TokenStatus(ctx context.Context) (*token.SessionToken, error) {
	return s.tokens.ActiveToken(ctx)
}

// AccountDetails returns the agency account state.
func (s *VendingService) AccountDetails(ctx context.Context) (smartpay.Response, error) {
	return s.gateway.AccountDetails(ctx)
}

// ChangePaymentPassword updates the payment password on the gateway side.
func (s *VendingService) ChangePaymentPassword(ctx context.Context, newPassword string) (smartpay.Response, error) {
	if newPassword == "" {
		return nil, domainErrors.NewValidationError("new_password", "must not be empty")
	}
	return s.gateway.ChangePaymentPassword(ctx, newPassword)
}

// SellPower vends prepayment power, guarded against duplicate submission.
func (s *VendingService) SellPower(ctx context.Context, req SellPowerRequest) (smartpay.Response, error) {
	amt, err := smartpay.FormatAmount(req.Amount)
	if err != nil {
		s.auditRejection(ctx, "sale", map[string]any{
			"trans_id": req.TransactionID,
			"rst_code": req.MeterNumber,
			"amt":      fmt.Sprintf("%v", req.Amount),
		}, err)
		return nil, err
	}

	return s.guarded(ctx, "sale", req.TransactionID, req.MeterNumber, amt, opSellPower,
		map[string]any{
			"trans_id": req.TransactionID,
			"rst_code": req.MeterNumber,
			"amt":      amt,
			"phone":    req.Phone,
			"channel":  req.Channel,
		},
		func(ctx context.Context) (smartpay.Response, error) {
			return s.gateway.SellPower(ctx, smartpay.SellPowerParams{
				TransID:     req.TransactionID,
				MeterNumber: req.MeterNumber,
				Amount:      amt,
				Phone:       req.Phone,
				Channel:     req.Channel,
				VerifyCode:  req.VerifyCode,
			})
		})
}

// PayArrear settles a prepayment arrear, guarded against duplicate
// submission.
func (s *VendingService) PayArrear(ctx context.Context, req PayArrearRequest) (smartpay.Response, error) {
	amt, err := smartpay.FormatAmount(req.Amount)
	if err != nil {
		s.auditRejection(ctx, "payarrear", map[string]any{
			"trans_id": req.TransactionID,
			"rst_code": req.MeterNumber,
			"amt":      fmt.Sprintf("%v", req.Amount),
		}, err)
		return nil, err
	}

	return s.guarded(ctx, "payarrear", req.TransactionID, req.MeterNumber, amt, opPayArrear,
		map[string]any{
			"trans_id": req.TransactionID,
			"rst_code": req.MeterNumber,
			"amt":      amt,
			"phone":    req.Phone,
			"channel":  req.Channel,
		},
		func(ctx context.Context) (smartpay.Response, error) {
			return s.gateway.PayArrear(ctx, smartpay.PayArrearParams{
				TransID:     req.TransactionID,
				MeterNumber: req.MeterNumber,
				Amount:      amt,
				Phone:       req.Phone,
				Channel:     req.Channel,
				VerifyCode:  req.VerifyCode,
			})
		})
}

// PayBill settles a postpayment bill, guarded against duplicate submission.
func (s *VendingService) PayBill(ctx context.Context, req PayBillRequest) (smartpay.Response, error) {
	amt, err := smartpay.FormatAmount(req.Amount)
	if err != nil {
		s.auditRejection(ctx, "pay_bill", map[string]any{
			"trans_id": req.TransactionID,
			"rst_code": req.BillCode,
			"amt":      fmt.Sprintf("%v", req.Amount),
		}, err)
		return nil, err
	}

	return s.guarded(ctx, "pay_bill", req.TransactionID, req.BillCode, amt, opPayBill,
		map[string]any{
			"trans_id": req.TransactionID,
			"rst_code": req.BillCode,
			"amt":      amt,
			"phone":    req.Phone,
			"channel":  req.Channel,
		},
		func(ctx context.Context) (smartpay.Response, error) {
			return s.gateway.PayBill(ctx, smartpay.PayBillParams{
				TransID:    req.TransactionID,
				BillCode:   req.BillCode,
				Amount:     amt,
				Phone:      req.Phone,
				Channel:    req.Channel,
				VerifyCode: req.VerifyCode,
			})
		})
}

// TransferAmount moves balance to a sub-agency or point of sale, guarded
// against duplicate submission.
func (s *VendingService) TransferAmount(ctx context.Context, req TransferRequest) (smartpay.Response, error) {
	amt, err := smartpay.FormatAmount(req.Amount)
	if err != nil {
		s.auditRejection(ctx, "transfer_amt", map[string]any{
			"trans_id":  req.TransactionID,
			"rst_value": req.RecipientValue,
			"amt":       fmt.Sprintf("%v", req.Amount),
		}, err)
		return nil, err
	}

	return s.guarded(ctx, "transfer_amt", req.TransactionID, req.RecipientValue, amt, opTransfer,
		map[string]any{
			"trans_id":  req.TransactionID,
			"rst_value": req.RecipientValue,
			"amt":       amt,
		},
		func(ctx context.Context) (smartpay.Response, error) {
			return s.gateway.TransferAmount(ctx, smartpay.TransferParams{
				TransID:        req.TransactionID,
				RecipientValue: req.RecipientValue,
				Amount:         amt,
			})
		})
}

// CustomerDetails looks up a prepayment customer.
func (s *VendingService) CustomerDetails(ctx context.Context, meterNumber string) (smartpay.Response, error) {
	return s.gateway.CustomerDetails(ctx, meterNumber)
}

// SaleDetails fetches one power sale transaction.
func (s *VendingService) SaleDetails(ctx context.Context, transactionCode string) (smartpay.Response, error) {
	return s.gateway.SaleDetails(ctx, transactionCode)
}

// SearchSaleTransactions lists recent power sales on a meter.
func (s *VendingService) SearchSaleTransactions(ctx context.Context, meterNumber string, count int) (smartpay.Response, error) {
	return s.gateway.SearchSaleTransactions(ctx, meterNumber, count)
}

// ArrearDetails fetches one arrear payment.
func (s *VendingService) ArrearDetails(ctx context.Context, transactionCode string) (smartpay.Response, error) {
	return s.gateway.ArrearDetails(ctx, transactionCode)
}

// SearchArrearTransactions lists arrear payments on a meter.
func (s *VendingService) SearchArrearTransactions(ctx context.Context, meterNumber string) (smartpay.Response, error) {
	return s.gateway.SearchArrearTransactions(ctx, meterNumber)
}

// CustomerBills lists open bills for a postpayment customer.
func (s *VendingService) CustomerBills(ctx context.Context, customerReference string) (smartpay.Response, error) {
	return s.gateway.CustomerBills(ctx, customerReference)
}

// BillDetails fetches one bill.
func (s *VendingService) BillDetails(ctx context.Context, billCode string) (smartpay.Response, error) {
	return s.gateway.BillDetails(ctx, billCode)
}

// BillTransactionDetails fetches one bill payment.
func (s *VendingService) BillTransactionDetails(ctx context.Context, transactionCode string) (smartpay.Response, error) {
	return s.gateway.BillTransactionDetails(ctx, transactionCode)
}

// SearchBillTransactions lists bill payments for a customer.
func (s *VendingService) SearchBillTransactions(ctx context.Context, customerReference string) (smartpay.Response, error) {
	return s.gateway.SearchBillTransactions(ctx, customerReference)
}

// guarded runs call inside the transaction guard and writes exactly one
// audit record for the attempt, whatever the outcome: success, lock
// contention, or failure. The deferred write also covers panics unwinding
// through here.
func (s *VendingService) guarded(
	ctx context.Context,
	endpoint, transactionID, resourceID, amount, operation string,
	requestData map[string]any,
	call func(ctx context.Context) (smartpay.Response, error),
) (resp smartpay.Response, err error) {
	start := time.Now()
	defer func() {
		rec := &audit.Record{
			Endpoint:     endpoint,
			RequestData:  requestData,
			ResponseData: auditResponse(resp, err),
			StatusCode:   auditStatus(err),
			Duration:     time.Since(start).Seconds(),
		}
		if auditErr := s.sink.Record(context.WithoutCancel(ctx), rec); auditErr != nil {
			s.logger.Error().Err(auditErr).Str("endpoint", endpoint).Msg("failed to write audit record")
		}
	}()

	err = s.guard.Run(ctx, transactionID, resourceID, amount, operation, func(ctx context.Context) error {
		var callErr error
		resp, callErr = call(ctx)
		return callErr
	})
	if err != nil {
		s.logger.Error().Err(err).Str("action", endpoint).Str("trans_id", transactionID).Msg("money-moving call failed")
		return resp, err
	}
	return resp, nil
}

// auditRejection records a money-moving attempt that failed input validation
// before any lock or remote call.
func (s *VendingService) auditRejection(ctx context.Context, endpoint string, requestData map[string]any, err error) {
	rec := &audit.Record{
		Endpoint:     endpoint,
		RequestData:  requestData,
		ResponseData: map[string]any{"error": err.Error()},
		StatusCode:   http.StatusBadRequest,
		Duration:     0,
	}
	if auditErr := s.sink.Record(context.WithoutCancel(ctx), rec); auditErr != nil {
		s.logger.Error().Err(auditErr).Str("endpoint", endpoint).Msg("failed to write audit record")
	}
}

func auditResponse(resp smartpay.Response, err error) map[string]any {
	if resp != nil {
		return resp
	}
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{}
}

func auditStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domainErrors.ErrDuplicateTransaction),
		errors.Is(err, domainErrors.ErrConcurrentResource):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrGatewayTransport),
		errors.Is(err, domainErrors.ErrTokenIssuance):
		return http.StatusBadGateway
	default:
		var ge *domainErrors.GatewayError
		if errors.As(err, &ge) {
			// Transport succeeded; the gateway's own state travels in the
			// payload.
			return http.StatusOK
		}
		return http.StatusInternalServerError
	}
}
