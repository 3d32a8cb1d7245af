package payment

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Gateway result codes; "00" on both fields means the payment went through.
const successCode = "00"

// ReturnInfo is the parsed gateway return redirect. Unknown or missing
// parameters degrade to the failure state rather than erroring; the return
// URL is attacker-visible input.
type ReturnInfo struct {
	ResponseCode      string
	TransactionStatus string
	Amount            decimal.Decimal
	OrderInfo         string
	TxnRef            string
	BankCode          string
	PayDate           time.Time
}

// Succeeded reports whether the gateway confirmed the payment.
func (r ReturnInfo) Succeeded() bool {
	return r.ResponseCode == successCode && r.TransactionStatus == successCode
}

// ParseReturn parses the vendor query parameters from the gateway return
// redirect. The gateway sends amounts multiplied by 100 and pay dates as
// yyyyMMddHHmmss.
func ParseReturn(query url.Values) ReturnInfo {
	info := ReturnInfo{
		ResponseCode:      query.Get("vnp_ResponseCode"),
		TransactionStatus: query.Get("vnp_TransactionStatus"),
		OrderInfo:         query.Get("vnp_OrderInfo"),
		TxnRef:            query.Get("vnp_TxnRef"),
		BankCode:          query.Get("vnp_BankCode"),
	}

	if raw := query.Get("vnp_Amount"); raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil {
			info.Amount = amount.Div(decimal.NewFromInt(100))
		}
	}

	if raw := query.Get("vnp_PayDate"); len(raw) == 14 {
		if ts, err := time.ParseInLocation("20060102150405", raw, time.Local); err == nil {
			info.PayDate = ts
		}
	}

	return info
}
