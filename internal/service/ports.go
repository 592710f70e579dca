package service

import (
	"context"

	"github.com/idrissabarry/vendgate/internal/smartpay"
)

// Gateway is the outbound SmartPay surface the service depends on.
// *smartpay.Client is the production implementation.
type Gateway interface {
	AccountDetails(ctx context.Context) (smartpay.Response, error)
	ChangePaymentPassword(ctx context.Context, newPassword string) (smartpay.Response, error)
	TransferAmount(ctx context.Context, p smartpay.TransferParams) (smartpay.Response, error)

	CustomerDetails(ctx context.Context, meterNumber string) (smartpay.Response, error)
	SellPower(ctx context.Context, p smartpay.SellPowerParams) (smartpay.Response, error)
	SaleDetails(ctx context.Context, transactionCode string) (smartpay.Response, error)
	SearchSaleTransactions(ctx context.Context, meterNumber string, count int) (smartpay.Response, error)
	PayArrear(ctx context.Context, p smartpay.PayArrearParams) (smartpay.Response, error)
	ArrearDetails(ctx context.Context, transactionCode string) (smartpay.Response, error)
	SearchArrearTransactions(ctx context.Context, meterNumber string) (smartpay.Response, error)

	CustomerBills(ctx context.Context, customerReference string) (smartpay.Response, error)
	BillDetails(ctx context.Context, billCode string) (smartpay.Response, error)
	PayBill(ctx context.Context, p smartpay.PayBillParams) (smartpay.Response, error)
	BillTransactionDetails(ctx context.Context, transactionCode string) (smartpay.Response, error)
	SearchBillTransactions(ctx context.Context, customerReference string) (smartpay.Response, error)
}
