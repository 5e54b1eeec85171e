// Package stripe adapts the Stripe API to the source client capability. The
// SDK owns pagination and per-call rate handling; dynamically-shaped payloads
// are mapped to validated records here and never flow past this boundary.
package stripe

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	stripesdk "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/iho/ledgersync/internal/usecase"
)

// Client is the source-platform client.
type Client struct {
	api *client.API
	log zerolog.Logger

	// Charges and customers are re-read per invoice; cache within the run.
	charges   map[string]*usecase.SourceCharge
	customers map[string]*usecase.SourceCustomer
}

// NewClient creates a Stripe client with the given secret key.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{
		api:       api,
		log:       log.With().Str("component", "stripe").Logger(),
		charges:   make(map[string]*usecase.SourceCharge),
		customers: make(map[string]*usecase.SourceCustomer),
	}
}

// ListInvoices returns the invoices created inside the window, at most limit.
func (c *Client) ListInvoices(ctx context.Context, from, to time.Time, limit int) ([]usecase.SourceInvoice, error) {
	params := &stripesdk.InvoiceListParams{
		CreatedRange: &stripesdk.RangeQueryParams{
			GreaterThan: from.Unix(),
			LesserThan:  to.Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripesdk.Int64(100)

	var out []usecase.SourceInvoice
	iter := c.api.Invoices.List(params)
	for iter.Next() {
		out = append(out, mapInvoice(iter.Invoice()))
		if limit > 0 && len(out) >= limit {
			c.log.Warn().Int("limit", limit).Msg("invoice batch cap reached")
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list stripe invoices: %w", err)
	}
	return out, nil
}

// ListRefunds returns the refunds created inside the window.
func (c *Client) ListRefunds(ctx context.Context, from, to time.Time) ([]usecase.SourceRefund, error) {
	params := &stripesdk.RefundListParams{
		CreatedRange: &stripesdk.RangeQueryParams{
			GreaterThan: from.Unix(),
			LesserThan:  to.Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripesdk.Int64(100)

	var out []usecase.SourceRefund
	iter := c.api.Refunds.List(params)
	for iter.Next() {
		refund := iter.Refund()
		mapped := usecase.SourceRefund{
			ID:       refund.ID,
			Currency: string(refund.Currency),
			Created:  time.Unix(refund.Created, 0).UTC(),
			Amount:   refund.Amount,
		}
		if refund.Charge != nil {
			mapped.ChargeID = refund.Charge.ID
		}
		out = append(out, mapped)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list stripe refunds: %w", err)
	}
	return out, nil
}

// GetCharge resolves a charge and its balance transaction (processor fee).
func (c *Client) GetCharge(ctx context.Context, id string) (*usecase.SourceCharge, error) {
	if cached, ok := c.charges[id]; ok {
		return cached, nil
	}

	params := &stripesdk.ChargeParams{}
	params.Context = ctx
	params.AddExpand("balance_transaction")

	charge, err := c.api.Charges.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get stripe charge %s: %w", id, err)
	}

	mapped := &usecase.SourceCharge{
		ID:      charge.ID,
		Created: time.Unix(charge.Created, 0).UTC(),
	}
	if charge.Customer != nil {
		mapped.CustomerID = charge.Customer.ID
	}
	if charge.Invoice != nil {
		mapped.InvoiceID = charge.Invoice.ID
	}
	if charge.BalanceTransaction != nil {
		mapped.Fee = charge.BalanceTransaction.Fee
		mapped.FeeCurrency = string(charge.BalanceTransaction.Currency)
	}

	c.charges[id] = mapped
	return mapped, nil
}

// GetCustomer resolves a customer.
func (c *Client) GetCustomer(ctx context.Context, id string) (*usecase.SourceCustomer, error) {
	if cached, ok := c.customers[id]; ok {
		return cached, nil
	}

	params := &stripesdk.CustomerParams{}
	params.Context = ctx

	customer, err := c.api.Customers.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get stripe customer %s: %w", id, err)
	}

	mapped := &usecase.SourceCustomer{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
	}
	if customer.Address != nil {
		mapped.Address.Line1 = customer.Address.Line1
		mapped.Address.Line2 = customer.Address.Line2
		mapped.Address.City = customer.Address.City
		mapped.Address.Region = customer.Address.State
		mapped.Address.PostalCode = customer.Address.PostalCode
		mapped.Address.Country = customer.Address.Country
	}

	c.customers[id] = mapped
	return mapped, nil
}

func mapInvoice(inv *stripesdk.Invoice) usecase.SourceInvoice {
	mapped := usecase.SourceInvoice{
		ID:        inv.ID,
		Number:    inv.Number,
		HostedURL: inv.HostedInvoiceURL,
		Currency:  string(inv.Currency),
		Created:   time.Unix(inv.Created, 0).UTC(),
		Paid:      inv.Status == stripesdk.InvoiceStatusPaid,
		Total:     inv.Total,
	}
	if inv.Customer != nil {
		mapped.CustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil {
		mapped.SubscriptionID = inv.Subscription.ID
	}
	if inv.Charge != nil {
		mapped.ChargeID = inv.Charge.ID
	}
	if inv.DueDate > 0 {
		mapped.DueDate = time.Unix(inv.DueDate, 0).UTC()
	}
	if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
		paidAt := time.Unix(inv.StatusTransitions.PaidAt, 0).UTC()
		mapped.PaidAt = &paidAt
	}
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			mapped.Lines = append(mapped.Lines, mapLine(line))
			if mapped.Description == "" && line.Description != "" {
				mapped.Description = line.Description
			}
		}
	}
	return mapped
}

func mapLine(line *stripesdk.InvoiceLineItem) usecase.SourceLine {
	mapped := usecase.SourceLine{
		Description: line.Description,
		Quantity:    line.Quantity,
		Amount:      line.Amount,
	}
	if line.Price != nil {
		mapped.UnitAmount = line.Price.UnitAmount
	}
	return mapped
}
