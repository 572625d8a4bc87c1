package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"pmb_backend/internals/features/finance/payments/model"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// ChargeRequest: data minimum untuk membuka transaksi Snap.
type ChargeRequest struct {
	OrderID       string
	Amount        int64
	ItemName      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type Charge struct {
	Token       string
	RedirectURL string
}

// Gateway: penyedia pembayaran online. Di test diganti implementasi palsu.
type Gateway interface {
	Provider() string
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway: sandbox kecuali production = true.
func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) Provider() string { return model.GatewayProviderMidtrans }

func (g *MidtransGateway) CreateCharge(_ context.Context, r ChargeRequest) (*Charge, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  r.OrderID,
			GrossAmt: r.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: r.CustomerName,
			Email: r.CustomerEmail,
			Phone: r.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    r.OrderID,
			Name:  r.ItemName,
			Price: r.Amount,
			Qty:   1,
		}},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("midtrans snap: %w", err)
	}
	return &Charge{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// MidtransSignature: SHA512(order_id + status_code + gross_amount + server_key), hex.
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifyMidtransSignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	want := MidtransSignature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1
}
