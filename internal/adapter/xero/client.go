package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgersync/internal/domain"
	"github.com/iho/ledgersync/internal/infrastructure/metrics"
)

const (
	defaultBaseURL = "https://api.xero.com/api.xro/2.0"
	pageSize       = 100
	dateFormat     = "2006-01-02"

	invoiceTypeSale  = "ACCREC"
	invoiceTypeBill  = "ACCPAY"
	statusAuthorised = "AUTHORISED"
)

// Client is the target-ledger client for the Xero Accounting API. It consumes
// an already-authorized HTTP client; tokens never reach this layer.
type Client struct {
	http     *http.Client
	baseURL  string
	tenantID string
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewClient creates a Xero client for one tenant.
func NewClient(httpClient *http.Client, tenantID string, log zerolog.Logger) *Client {
	return &Client{
		http:     httpClient,
		baseURL:  defaultBaseURL,
		tenantID: tenantID,
		log:      log.With().Str("component", "xero").Logger(),
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithMetrics enables per-request counters.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

// ListContacts pages through every contact of the tenant.
func (c *Client) ListContacts(ctx context.Context) ([]domain.TargetContact, error) {
	var out []domain.TargetContact
	for page := 1; ; page++ {
		var envelope contactsEnvelope
		query := url.Values{"page": {strconv.Itoa(page)}}
		if err := c.get(ctx, "/Contacts", query, &envelope); err != nil {
			return nil, err
		}
		for _, contact := range envelope.Contacts {
			out = append(out, domain.TargetContact{
				ID:          contact.ContactID,
				Name:        contact.Name,
				ExternalRef: contact.ContactNumber,
			})
		}
		if len(envelope.Contacts) < pageSize {
			return out, nil
		}
	}
}

// ListInvoices pages through the tenant's sales invoices.
func (c *Client) ListInvoices(ctx context.Context) ([]domain.TargetDocument, error) {
	return c.listDocuments(ctx, invoiceTypeSale)
}

// ListBills pages through the tenant's bills (payable invoices).
func (c *Client) ListBills(ctx context.Context) ([]domain.TargetDocument, error) {
	return c.listDocuments(ctx, invoiceTypeBill)
}

func (c *Client) listDocuments(ctx context.Context, invoiceType string) ([]domain.TargetDocument, error) {
	var out []domain.TargetDocument
	for page := 1; ; page++ {
		var envelope invoicesEnvelope
		query := url.Values{
			"where": {fmt.Sprintf("Type==%q", invoiceType)},
			"page":  {strconv.Itoa(page)},
		}
		if err := c.get(ctx, "/Invoices", query, &envelope); err != nil {
			return nil, err
		}
		for _, inv := range envelope.Invoices {
			doc := domain.TargetDocument{
				ID:        inv.InvoiceID,
				Number:    inv.InvoiceNumber,
				Reference: inv.Reference,
				Status:    inv.Status,
				Currency:  inv.CurrencyCode,
				Total:     inv.Total,
			}
			if inv.Contact != nil {
				doc.ContactID = inv.Contact.ContactID
			}
			out = append(out, doc)
		}
		if len(envelope.Invoices) < pageSize {
			return out, nil
		}
	}
}

// ListPayments pages through the tenant's payments.
func (c *Client) ListPayments(ctx context.Context) ([]domain.TargetPayment, error) {
	var out []domain.TargetPayment
	for page := 1; ; page++ {
		var envelope paymentsEnvelope
		query := url.Values{"page": {strconv.Itoa(page)}}
		if err := c.get(ctx, "/Payments", query, &envelope); err != nil {
			return nil, err
		}
		for _, p := range envelope.Payments {
			payment := domain.TargetPayment{
				ID:        p.PaymentID,
				Reference: p.Reference,
				Amount:    p.Amount,
			}
			if p.Invoice != nil {
				payment.DocumentID = p.Invoice.InvoiceID
			}
			out = append(out, payment)
		}
		if len(envelope.Payments) < pageSize {
			return out, nil
		}
	}
}

// CreateContact creates a contact. The source customer ID rides the contact
// number field so later runs can match by identity; the email deliberately
// rides the first-name field instead of the email field, so Xero never mails
// the customer.
func (c *Client) CreateContact(ctx context.Context, draft domain.ContactDraft) (string, error) {
	payload := contactsEnvelope{Contacts: []apiContact{{
		Name:          draft.Name,
		ContactNumber: draft.ExternalRef,
		FirstName:     draft.Email,
		LastName:      fmt.Sprintf("%s (%s)", draft.Name, draft.ExternalRef),
		IsCustomer:    true,
		Addresses: []apiAddress{{
			AddressType:  "STREET",
			AddressLine1: draft.Address.Line1,
			AddressLine2: draft.Address.Line2,
			City:         draft.Address.City,
			Region:       draft.Address.Region,
			PostalCode:   draft.Address.PostalCode,
			Country:      draft.Address.Country,
		}},
		Phones: []apiPhone{{PhoneNumber: draft.Phone}},
	}}}

	var created contactsEnvelope
	if err := c.post(ctx, "/Contacts", "contact:"+draft.ExternalRef, payload, &created); err != nil {
		return "", err
	}
	if len(created.Contacts) == 0 {
		return "", &domain.OperationError{Message: "create contact returned no record"}
	}
	return created.Contacts[0].ContactID, nil
}

// CreateInvoice creates an authorised sales invoice.
func (c *Client) CreateInvoice(ctx context.Context, draft domain.InvoiceDraft) (string, error) {
	return c.createDocument(ctx, invoiceTypeSale, draft)
}

// CreateBill creates an authorised payable invoice.
func (c *Client) CreateBill(ctx context.Context, draft domain.InvoiceDraft) (string, error) {
	return c.createDocument(ctx, invoiceTypeBill, draft)
}

func (c *Client) createDocument(ctx context.Context, invoiceType string, draft domain.InvoiceDraft) (string, error) {
	lines := make([]apiLineItem, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, apiLineItem{
			Description: l.Description,
			Quantity:    decimal.NewFromInt(l.Quantity),
			UnitAmount:  l.UnitAmount,
			LineAmount:  l.Amount,
			AccountCode: l.AccountCode,
			TaxType:     l.TaxType,
		})
	}

	payload := invoicesEnvelope{Invoices: []apiInvoice{{
		Type:          invoiceType,
		Status:        statusAuthorised,
		Contact:       &apiContact{ContactID: draft.Contact.TargetID},
		InvoiceNumber: draft.Number,
		Reference:     draft.Reference,
		CurrencyCode:  draft.Currency,
		Date:          draft.Date.Format(dateFormat),
		DueDate:       draft.DueDate.Format(dateFormat),
		URL:           draft.URL,
		LineItems:     lines,
	}}}

	var created invoicesEnvelope
	if err := c.post(ctx, "/Invoices", "document:"+draft.Number, payload, &created); err != nil {
		return "", err
	}
	if len(created.Invoices) == 0 {
		return "", &domain.OperationError{Message: "create invoice returned no record"}
	}
	return created.Invoices[0].InvoiceID, nil
}

// CreatePayment records a payment against an existing document.
func (c *Client) CreatePayment(ctx context.Context, draft domain.PaymentDraft) (string, error) {
	payload := paymentsEnvelope{Payments: []apiPayment{{
		Invoice:   &apiInvoice{InvoiceID: draft.Document.TargetID},
		Account:   &apiAccount{Code: draft.AccountCode},
		Amount:    draft.Amount,
		Date:      draft.Date.Format(dateFormat),
		Reference: draft.Reference,
	}}}

	var created paymentsEnvelope
	if err := c.put(ctx, "/Payments", "payment:"+draft.Reference, payload, &created); err != nil {
		return "", err
	}
	if len(created.Payments) == 0 {
		return "", &domain.OperationError{Message: "create payment returned no record"}
	}
	return created.Payments[0].PaymentID, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

func (c *Client) post(ctx context.Context, path, idempotencySeed string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, idempotencySeed, payload, out)
}

func (c *Client) put(ctx context.Context, path, idempotencySeed string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, idempotencySeed, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, idempotencySeed string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Xero-Tenant-Id", c.tenantID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		// Same write retried after a cut connection must not create a second
		// record; the key is derived from the draft so retries reuse it.
		req.Header.Set("Idempotency-Key", idempotencyKey(idempotencySeed))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.count(path, "transport_error")
		// Transport-level failures are always worth a retry.
		return &domain.OperationError{Message: err.Error(), Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.OperationError{StatusCode: resp.StatusCode, Message: err.Error(), Retryable: true, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count(path, strconv.Itoa(resp.StatusCode))
		return classifyError(resp.StatusCode, data)
	}
	c.count(path, "ok")

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) count(path, outcome string) {
	if c.metrics != nil {
		c.metrics.TargetRequests.WithLabelValues(path, outcome).Inc()
	}
}

// classifyError maps an API failure to the retryable/non-retryable taxonomy.
// Rate limits and server errors are transient; everything else (validation,
// auth, duplicates) fails the operation immediately.
func classifyError(status int, body []byte) error {
	message := errorMessage(body)
	retryable := status == http.StatusTooManyRequests || status >= 500
	return &domain.OperationError{
		StatusCode: status,
		Message:    message,
		Retryable:  retryable,
	}
}

func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	const maxLen = 512
	if len(body) > maxLen {
		body = body[:maxLen]
	}
	return string(body)
}

// idempotencyKey derives the stable per-write key sent to the API.
func idempotencyKey(seed string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ledgersync:"+seed)).String()
}
