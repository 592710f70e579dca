package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/idrissabarry/vendgate/internal/service"
)

// VendingController handles SmartPay vending HTTP requests.
type VendingController struct {
	vendingService *service.VendingService
}

// NewVendingController creates a new VendingController.
func NewVendingController(vendingService *service.VendingService) *VendingController {
	return &VendingController{vendingService: vendingService}
}

// TokenStatus handles GET /api/v1/token
func (h *VendingController) TokenStatus(w http.ResponseWriter, r *http.Request) {
	tok, err := h.vendingService.TokenStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenStatusResponse{
		Token:     maskToken(tok.Token),
		StartTime: tok.StartTime,
		EndTime:   tok.EndTime,
		IsActive:  tok.IsActive,
		Expired:   tok.IsExpired(time.Now()),
	})
}

// AccountDetails handles GET /api/v1/account
func (h *VendingController) AccountDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.AccountDetails(r.Context())
	writeGatewayResult(w, resp, err)
}

// ChangePassword handles POST /api/v1/account/password
func (h *VendingController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.vendingService.ChangePaymentPassword(r.Context(), req.NewPassword)
	writeGatewayResult(w, resp, err)
}

// Transfer handles POST /api/v1/transfers
func (h *VendingController) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.vendingService.TransferAmount(r.Context(), service.TransferRequest{
		TransactionID:  req.TransactionID,
		RecipientValue: req.RecipientValue,
		Amount:         req.Amount,
	})
	writeGatewayResult(w, resp, err)
}

// CustomerDetails handles GET /api/v1/customers/{meter}
func (h *VendingController) CustomerDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.CustomerDetails(r.Context(), chi.URLParam(r, "meter"))
	writeGatewayResult(w, resp, err)
}

// SellPower handles POST /api/v1/sales
func (h *VendingController) SellPower(w http.ResponseWriter, r *http.Request) {
	var req SellPowerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.vendingService.SellPower(r.Context(), service.SellPowerRequest{
		TransactionID: req.TransactionID,
		MeterNumber:   req.MeterNumber,
		Amount:        req.Amount,
		Phone:         req.Phone,
		Channel:       req.Channel,
		VerifyCode:    req.VerifyCode,
	})
	writeGatewayResult(w, resp, err)
}

// SaleDetails handles GET /api/v1/sales/{code}
func (h *VendingController) SaleDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.SaleDetails(r.Context(), chi.URLParam(r, "code"))
	writeGatewayResult(w, resp, err)
}

// SearchSales handles GET /api/v1/customers/{meter}/sales
func (h *VendingController) SearchSales(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = 5
	}

	resp, err := h.vendingService.SearchSaleTransactions(r.Context(), chi.URLParam(r, "meter"), count)
	writeGatewayResult(w, resp, err)
}

// PayArrear handles POST /api/v1/arrears
func (h *VendingController) PayArrear(w http.ResponseWriter, r *http.Request) {
	var req PayArrearRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.vendingService.PayArrear(r.Context(), service.PayArrearRequest{
		TransactionID: req.TransactionID,
		MeterNumber:   req.MeterNumber,
		Amount:        req.Amount,
		Phone:         req.Phone,
		Channel:       req.Channel,
		VerifyCode:    req.VerifyCode,
	})
	writeGatewayResult(w, resp, err)
}

// ArrearDetails handles GET /api/v1/arrears/{code}
func (h *VendingController) ArrearDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.ArrearDetails(r.Context(), chi.URLParam(r, "code"))
	writeGatewayResult(w, resp, err)
}

// SearchArrears handles GET /api/v1/customers/{meter}/arrears
func (h *VendingController) SearchArrears(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.SearchArrearTransactions(r.Context(), chi.URLParam(r, "meter"))
	writeGatewayResult(w, resp, err)
}

// CustomerBills handles GET /api/v1/customers/{meter}/bills
func (h *VendingController) CustomerBills(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.CustomerBills(r.Context(), chi.URLParam(r, "meter"))
	writeGatewayResult(w, resp, err)
}

// BillDetails handles GET /api/v1/bills/{code}
func (h *VendingController) BillDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.BillDetails(r.Context(), chi.URLParam(r, "code"))
	writeGatewayResult(w, resp, err)
}

// PayBill handles POST /api/v1/bill-payments
func (h *VendingController) PayBill(w http.ResponseWriter, r *http.Request) {
	var req PayBillRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.vendingService.PayBill(r.Context(), service.PayBillRequest{
		TransactionID: req.TransactionID,
		BillCode:      req.BillCode,
		Amount:        req.Amount,
		Phone:         req.Phone,
		Channel:       req.Channel,
		VerifyCode:    req.VerifyCode,
	})
	writeGatewayResult(w, resp, err)
}

// BillPaymentDetails handles GET /api/v1/bill-payments/{code}
func (h *VendingController) BillPaymentDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.BillTransactionDetails(r.Context(), chi.URLParam(r, "code"))
	writeGatewayResult(w, resp, err)
}

// SearchBillPayments handles GET /api/v1/customers/{meter}/bill-payments
func (h *VendingController) SearchBillPayments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.vendingService.SearchBillTransactions(r.Context(), chi.URLParam(r, "meter"))
	writeGatewayResult(w, resp, err)
}
