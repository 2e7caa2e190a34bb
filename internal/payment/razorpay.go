package payment

import (
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
)

// RazorpayGateway adapts the Razorpay SDK to the Gateway interface.
type RazorpayGateway struct {
	client *razorpay.Client
	logger *logger.Logger
}

func NewRazorpayGateway(keyID, keySecret string, log *logger.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		logger: log,
	}
}

// CreateOrder mints a Razorpay order. Amount is already in minor units
// (paise); the receipt is the human-readable order number so a retried
// create is idempotent on the gateway side.
func (g *RazorpayGateway) CreateOrder(amountMinorUnits int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay response missing order id")
	}

	g.logger.LogPayment("GATEWAY", receipt, fmt.Sprintf("razorpay order %s minted", id))
	return &GatewayOrder{
		ID:       id,
		Amount:   amountMinorUnits,
		Currency: currency,
	}, nil
}
