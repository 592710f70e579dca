package service

// SellPowerRequest vends prepayment power onto a meter.
type SellPowerRequest struct {
	TransactionID string
	MeterNumber   string
	Amount        any
	Phone         string
	Channel       string
	VerifyCode    string
}

// PayArrearRequest settles an arrear on a prepayment meter.
type PayArrearRequest struct {
	TransactionID string
	MeterNumber   string
	Amount        any
	Phone         string
	Channel       string
	VerifyCode    string
}

// PayBillRequest settles a postpayment bill.
type PayBillRequest struct {
	TransactionID string
	BillCode      string
	Amount        any
	Phone         string
	Channel       string
	VerifyCode    string
}

// TransferRequest moves balance to a sub-agency or point of sale.
type TransferRequest struct {
	TransactionID  string
	RecipientValue string
	Amount         any
}
