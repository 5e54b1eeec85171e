package xero

import "github.com/shopspring/decimal"

// Wire types for the Xero Accounting API. Only the fields this tool reads or
// writes are modeled; everything else stays at the boundary.

type apiAddress struct {
	AddressType  string `json:"AddressType,omitempty"`
	AddressLine1 string `json:"AddressLine1,omitempty"`
	AddressLine2 string `json:"AddressLine2,omitempty"`
	City         string `json:"City,omitempty"`
	Region       string `json:"Region,omitempty"`
	PostalCode   string `json:"PostalCode,omitempty"`
	Country      string `json:"Country,omitempty"`
}

type apiPhone struct {
	PhoneNumber string `json:"PhoneNumber,omitempty"`
}

type apiContact struct {
	ContactID     string       `json:"ContactID,omitempty"`
	ContactNumber string       `json:"ContactNumber,omitempty"`
	Name          string       `json:"Name,omitempty"`
	FirstName     string       `json:"FirstName,omitempty"`
	LastName      string       `json:"LastName,omitempty"`
	IsCustomer    bool         `json:"IsCustomer,omitempty"`
	Addresses     []apiAddress `json:"Addresses,omitempty"`
	Phones        []apiPhone   `json:"Phones,omitempty"`
}

type contactsEnvelope struct {
	Contacts []apiContact `json:"Contacts"`
}

type apiLineItem struct {
	Description string          `json:"Description,omitempty"`
	Quantity    decimal.Decimal `json:"Quantity"`
	UnitAmount  decimal.Decimal `json:"UnitAmount"`
	LineAmount  decimal.Decimal `json:"LineAmount"`
	AccountCode string          `json:"AccountCode,omitempty"`
	TaxType     string          `json:"TaxType,omitempty"`
}

type apiInvoice struct {
	InvoiceID     string          `json:"InvoiceID,omitempty"`
	InvoiceNumber string          `json:"InvoiceNumber,omitempty"`
	Reference     string          `json:"Reference,omitempty"`
	Type          string          `json:"Type,omitempty"`
	Status        string          `json:"Status,omitempty"`
	CurrencyCode  string          `json:"CurrencyCode,omitempty"`
	Contact       *apiContact     `json:"Contact,omitempty"`
	Date          string          `json:"Date,omitempty"`
	DueDate       string          `json:"DueDate,omitempty"`
	URL           string          `json:"Url,omitempty"`
	LineItems     []apiLineItem   `json:"LineItems,omitempty"`
	Total         decimal.Decimal `json:"Total,omitempty"`
}

type invoicesEnvelope struct {
	Invoices []apiInvoice `json:"Invoices"`
}

type apiAccount struct {
	Code string `json:"Code,omitempty"`
}

type apiPayment struct {
	PaymentID string          `json:"PaymentID,omitempty"`
	Reference string          `json:"Reference,omitempty"`
	Amount    decimal.Decimal `json:"Amount"`
	Date      string          `json:"Date,omitempty"`
	Invoice   *apiInvoice     `json:"Invoice,omitempty"`
	Account   *apiAccount     `json:"Account,omitempty"`
}

type paymentsEnvelope struct {
	Payments []apiPayment `json:"Payments"`
}

// apiError is the error envelope Xero returns for rejected requests.
type apiError struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
	Detail  string `json:"Detail"`
}
