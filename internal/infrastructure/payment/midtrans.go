package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

// midtransNotification is the subset of the HTTP notification body needed to verify and settle.
type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

type midtransGateway struct {
	serverKey     string
	createSnapTxn func(req *snap.Request) (*snap.Response, *midtrans.Error)
}

func NewMidtransGateway(serverKey, env string) Gateway {
	environment := midtrans.Sandbox
	if env == "production" {
		environment = midtrans.Production
	}

	var s snap.Client
	s.New(serverKey, environment)

	return &midtransGateway{
		serverKey:     serverKey,
		createSnapTxn: s.CreateTransaction,
	}
}

func (g *midtransGateway) Method() string {
	return entity.PaymentMethodMidtrans
}

func (g *midtransGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	// Midtrans expects whole units of the settlement currency.
	gross := req.Amount.Round(0).IntPart()

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.InvoiceID.String(),
			GrossAmt: gross,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.InvoiceNumber,
				Name:  fmt.Sprintf("Invoice %s", req.InvoiceNumber),
				Price: gross,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
		CustomField1: req.InvoiceNumber,
		CustomField2: req.Metadata[MetaTenantID],
		CustomField3: req.Metadata[MetaPatientID],
	}

	resp, snapErr := g.createSnapTxn(snapReq)
	if snapErr != nil {
		return nil, fmt.Errorf("midtrans: create transaction: %s", snapErr.GetMessage())
	}

	return &CheckoutSession{SessionID: resp.Token, URL: resp.RedirectURL}, nil
}

// Signature computes sha512(order_id + status_code + gross_amount + server_key) as lowercase hex.
func (g *midtransGateway) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.serverKey))
	return hex.EncodeToString(sum[:])
}

func (g *midtransGateway) ParseWebhook(payload []byte, _ http.Header) (*Event, error) {
	var n midtransNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, ErrInvalidSignature
	}

	expected := g.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	if n.SignatureKey == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return nil, ErrInvalidSignature
	}

	result := &Event{
		Kind:   EventIgnored,
		Type:   n.TransactionStatus,
		Method: g.Method(),
	}

	completed := n.TransactionStatus == "settlement" ||
		(n.TransactionStatus == "capture" && n.FraudStatus == "accept")
	if !completed {
		return result, nil
	}

	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: gross_amount %q", ErrMalformedEvent, n.GrossAmount)
	}

	result.Kind = EventCheckoutCompleted
	result.InvoiceID = n.OrderID
	result.TransactionID = n.TransactionID
	result.SessionID = n.OrderID
	result.Amount = amount
	return result, nil
}
