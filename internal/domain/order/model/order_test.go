package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGroupCodesAndToResult(t *testing.T) {
	lines := []AllocatedLine{
		{OfferID: "A", Brand: "Brand-A", Discount: "10%", Quantity: 2, Price: decimal.NewFromInt(50), Codes: []string{"A1", "A2"}},
		{OfferID: "B", Brand: "Brand-B", Discount: "20%", Quantity: 1, Price: decimal.NewFromInt(80), Codes: []string{"B1"}},
		{OfferID: "A", Brand: "Brand-A", Discount: "10%", Quantity: 1, Price: decimal.NewFromInt(50), Codes: []string{"A3"}},
	}

	groups := GroupCodes(lines)

	assert.Equal(t, []CodeGroup{
		{Brand: "Brand-A", Discount: "10%", Codes: []string{"A1", "A2", "A3"}},
		{Brand: "Brand-B", Discount: "20%", Codes: []string{"B1"}},
	}, groups)

	order := &Order{PaymentID: "pay_1", Codes: groups}
	order.ID = "o1"
	for _, l := range lines {
		order.Items = append(order.Items, LineItem{OfferID: l.OfferID, Brand: l.Brand, Discount: l.Discount, Price: l.Price, Quantity: l.Quantity})
	}

	res := order.ToResult()

	assert.Equal(t, "o1", res.OrderID)
	assert.Equal(t, "pay_1", res.PaymentID)
	assert.Equal(t, []string{"A1", "A2"}, res.AllocatedLines[0].Codes)
	assert.Equal(t, []string{"B1"}, res.AllocatedLines[1].Codes)
	assert.Equal(t, []string{"A3"}, res.AllocatedLines[2].Codes)
}
