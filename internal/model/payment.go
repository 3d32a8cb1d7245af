package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest asks the back end to open a gateway payment session.
// Amount is in VND, untruncated; the gateway wire format multiplies by 100.
type PaymentRequest struct {
	OrderID   int64  `json:"orderId"`
	Amount    int64  `json:"amount"`
	OrderInfo string `json:"orderInfo"`
	UserID    int64  `json:"userId"`
}

// PaymentSession is the result of a create-payment call.
type PaymentSession struct {
	PaymentURL string `json:"paymentUrl"`
	TxnRef     string `json:"txnRef"`
}

// Payment is a recorded gateway transaction.
type Payment struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	TxnRef    string          `json:"txnRef"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	BankCode  string          `json:"bankCode"`
	CreatedAt time.Time       `json:"createdAt"`
}
