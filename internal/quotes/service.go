package quotes

import (
	"context"
	"fmt"

	"github.com/industrialpartner/storefront-backend/internal/catalog"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
	"github.com/industrialpartner/storefront-backend/pkg/session"
)

// quoteSender is the slice of the catalog client the quote pipeline needs.
type quoteSender interface {
	CreateQuote(ctx context.Context, payload catalog.QuotePayload) (string, error)
	RequestInfo(ctx context.Context, quoteID string, payload catalog.RequestInfoPayload) error
	QuoteAddon(ctx context.Context, quoteID string, payload catalog.AddonPayload) error
}

// Service submits requests for quote to the remote API and keeps the
// resulting quote id in the browser session.
type Service interface {
	// SubmitSingle creates a one-line quote from a product page and fires
	// the request-info follow-up tagged with the requester's IP. The quote
	// id comes back even when the follow-up fails, alongside the error.
	SubmitSingle(ctx context.Context, sessionID, clientIP string, form SingleQuoteForm) (string, error)

	// SubmitCart creates a multi-line quote and clears the session cart on
	// success. No follow-up call is made on this path.
	SubmitCart(ctx context.Context, sessionID string, form ContactForm, items []catalog.LineItem) (string, error)

	// SubmitAddon posts the qualification fields against the session's last
	// quote id.
	SubmitAddon(ctx context.Context, sessionID string, form AddonForm) error

	// LastQuoteID returns the quote id stored in the session, if any.
	LastQuoteID(ctx context.Context, sessionID string) (string, error)
}

// Params carries the dependencies for NewService.
type Params struct {
	Client quoteSender
	Store  session.Store
	Logger *logger.Logger

	// Source tags outbound request-info calls with this storefront's name.
	Source string
}

type service struct {
	client quoteSender
	store  session.Store
	logger *logger.Logger
	source string
}

// NewService validates its dependencies and returns a quote Service.
func NewService(p Params) (Service, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("quotes: catalog client is required")
	}
	if p.Store == nil {
		return nil, fmt.Errorf("quotes: session store is required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("quotes: logger is required")
	}
	return &service{
		client: p.Client,
		store:  p.Store,
		logger: p.Logger,
		source: p.Source,
	}, nil
}

func (s *service) SubmitSingle(ctx context.Context, sessionID, clientIP string, form SingleQuoteForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	payload := payloadFromContact(form.ContactForm)
	payload.LineItems = []catalog.LineItem{{ItemID: form.ItemID, Qty: form.Quantity}}

	quoteID, err := s.client.CreateQuote(ctx, payload)
	if err != nil {
		return "", err
	}
	if err := s.rememberQuoteID(ctx, sessionID, quoteID); err != nil {
		return quoteID, err
	}

	info := catalog.RequestInfoPayload{
		IPAddress:  clientIP,
		Source:     s.source,
		IsFirstRFQ: true,
	}
	if err := s.client.RequestInfo(ctx, quoteID, info); err != nil {
		s.logger.Error(s.logger.WithField(ctx, "quote_id", quoteID), "request-info follow-up failed", err)
		return quoteID, err
	}
	return quoteID, nil
}

func (s *service) SubmitCart(ctx context.Context, sessionID string, form ContactForm, items []catalog.LineItem) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no line items submitted")
	}

	payload := payloadFromContact(form)
	payload.LineItems = items

	quoteID, err := s.client.CreateQuote(ctx, payload)
	if err != nil {
		return "", err
	}

	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return quoteID, err
	}
	data.Cart = map[string]session.Line{}
	data.QuoteID = quoteID
	if err := s.store.Put(ctx, sessionID, data); err != nil {
		return quoteID, err
	}
	return quoteID, nil
}

func (s *service) SubmitAddon(ctx context.Context, sessionID string, form AddonForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	quoteID, err := s.LastQuoteID(ctx, sessionID)
	if err != nil {
		return err
	}
	if quoteID == "" {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no quote on this session")
	}
	return s.client.QuoteAddon(ctx, quoteID, catalog.AddonPayload{
		Address1: form.Address1,
		Address2: form.Address2,
		City:     form.City,
		State:    form.State,
		Zip:      form.Zip,
		Industry: form.Industry,
		Purpose:  form.Purpose,
	})
}

func (s *service) LastQuoteID(ctx context.Context, sessionID string) (string, error) {
	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return data.QuoteID, nil
}

func (s *service) rememberQuoteID(ctx context.Context, sessionID, quoteID string) error {
	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	data.QuoteID = quoteID
	return s.store.Put(ctx, sessionID, data)
}

func payloadFromContact(form ContactForm) catalog.QuotePayload {
	return catalog.QuotePayload{
		Notes:     form.Notes,
		Comments:  form.Comments,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Company:   form.Company,
		Phone:     form.Phone,
		Email:     form.Email,
	}
}
