package smartpay

import "context"

// defaultVerifyCode is the gateway's sentinel for "skip verification data".
const defaultVerifyCode = "DONOTVERIFYDATA"

// TransferParams identifies a transfer to a sub-agency or point of sale.
type TransferParams struct {
	TransID        string
	RecipientValue string
	Amount         any
}

// SellPowerParams identifies a prepayment power sale.
type SellPowerParams struct {
	TransID     string
	MeterNumber string
	Amount      any
	Phone       string
	Channel     string
	VerifyCode  string
}

// PayArrearParams identifies a prepayment arrear settlement.
type PayArrearParams struct {
	TransID     string
	MeterNumber string
	Amount      any
	Phone       string
	Channel     string
	VerifyCode  string
}

// PayBillParams identifies a postpayment bill settlement.
type PayBillParams struct {
	TransID    string
	BillCode   string
	Amount     any
	Phone      string
	Channel    string
	VerifyCode string
}

// AccountDetails returns the agency account state.
func (c *Client) AccountDetails(ctx context.Context) (Response, error) {
	return c.Call(ctx, "accountdetail", CategoryNone, map[string]any{}, true)
}

// ChangePaymentPassword updates the payment password on the gateway side.
func (c *Client) ChangePaymentPassword(ctx context.Context, newPassword string) (Response, error) {
	return c.Call(ctx, "changepwd", CategoryNone, map[string]any{"password": newPassword}, true)
}

// TransferAmount moves balance to a sub-agency or point of sale.
func (c *Client) TransferAmount(ctx context.Context, p TransferParams) (Response, error) {
	amt, err := FormatAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "transfer_amt", CategoryNone, map[string]any{
		"trans_id":  p.TransID,
		"rst_value": p.RecipientValue,
		"amt":       amt,
	}, true)
}

// CustomerDetails looks up a prepayment customer by meter number.
func (c *Client) CustomerDetails(ctx context.Context, meterNumber string) (Response, error) {
	return c.Call(ctx, "get_cst_details", CategoryPrepay, map[string]any{"rst_value": meterNumber}, true)
}

// SellPower vends prepayment power onto a meter.
func (c *Client) SellPower(ctx context.Context, p SellPowerParams) (Response, error) {
	amt, err := FormatAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "sale", CategoryPrepay, map[string]any{
		"trans_id":    p.TransID,
		"rst_code":    p.MeterNumber,
		"calc_mode":   "M",
		"amt":         amt,
		"channel":     c.channelOrDefault(p.Channel),
		"phone":       p.Phone,
		"verify_code": verifyCodeOrDefault(p.VerifyCode),
	}, true)
}

// SaleDetails fetches one power sale transaction by code.
func (c *Client) SaleDetails(ctx context.Context, transactionCode string) (Response, error) {
	return c.Call(ctx, "sales_trans_details", CategoryPrepay, map[string]any{"code": transactionCode}, true)
}

// SearchSaleTransactions lists recent power sales on a meter.
func (c *Client) SearchSaleTransactions(ctx context.Context, meterNumber string, count int) (Response, error) {
	if count <= 0 {
		count = 5
	}
	return c.Call(ctx, "search_sale_trans", CategoryPrepay, map[string]any{
		"rst_code": meterNumber,
		"count":    count,
	}, true)
}

// PayArrear settles an arrear on a prepayment meter.
func (c *Client) PayArrear(ctx context.Context, p PayArrearParams) (Response, error) {
	amt, err := FormatAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "payarrear", CategoryPrepay, map[string]any{
		"trans_id":    p.TransID,
		"rst_code":    p.MeterNumber,
		"amt":         amt,
		"channel":     c.channelOrDefault(p.Channel),
		"phone":       p.Phone,
		"verify_code": verifyCodeOrDefault(p.VerifyCode),
	}, true)
}

// ArrearDetails fetches one arrear payment by transaction code.
func (c *Client) ArrearDetails(ctx context.Context, transactionCode string) (Response, error) {
	return c.Call(ctx, "arrear_trans_details", CategoryPrepay, map[string]any{"trans_code": transactionCode}, true)
}

// SearchArrearTransactions lists arrear payments on a meter.
func (c *Client) SearchArrearTransactions(ctx context.Context, meterNumber string) (Response, error) {
	return c.Call(ctx, "search_arear_trans", CategoryPrepay, map[string]any{"rst_code": meterNumber}, true)
}

// CustomerBills lists open bills for a postpayment customer.
func (c *Client) CustomerBills(ctx context.Context, customerReference string) (Response, error) {
	return c.Call(ctx, "get_bills", CategoryPostpay, map[string]any{"rst_code": customerReference}, true)
}

// BillDetails fetches one bill by code.
func (c *Client) BillDetails(ctx context.Context, billCode string) (Response, error) {
	return c.Call(ctx, "bill_details", CategoryPostpay, map[string]any{"rst_code": billCode}, true)
}

// PayBill settles a postpayment bill.
func (c *Client) PayBill(ctx context.Context, p PayBillParams) (Response, error) {
	amt, err := FormatAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "pay_bill", CategoryPostpay, map[string]any{
		"trans_id":    p.TransID,
		"rst_code":    p.BillCode,
		"amt":         amt,
		"channel":     c.channelOrDefault(p.Channel),
		"phone":       p.Phone,
		"verify_code": verifyCodeOrDefault(p.VerifyCode),
	}, true)
}

// BillTransactionDetails fetches one bill payment by transaction code.
func (c *Client) BillTransactionDetails(ctx context.Context, transactionCode string) (Response, error) {
	return c.Call(ctx, "bill_trans_details", CategoryPostpay, map[string]any{"trans_code": transactionCode}, true)
}

// SearchBillTransactions lists bill payments for a customer.
func (c *Client) SearchBillTransactions(ctx context.Context, customerReference string) (Response, error) {
	return c.Call(ctx, "search_bill_trans", CategoryPostpay, map[string]any{"rst_code": customerReference}, true)
}

func (c *Client) channelOrDefault(channel string) string {
	if channel == "" {
		return c.defaultChannel
	}
	return channel
}

func verifyCodeOrDefault(code string) string {
	if code == "" {
		return defaultVerifyCode
	}
	return code
}
