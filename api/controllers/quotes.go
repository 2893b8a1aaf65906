package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/industrialpartner/storefront-backend/api/middleware"
	"github.com/industrialpartner/storefront-backend/api/responses"
	"github.com/industrialpartner/storefront-backend/api/validators"
	"github.com/industrialpartner/storefront-backend/internal/catalog"
	quotesvc "github.com/industrialpartner/storefront-backend/internal/quotes"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
)

const submittedMessage = "Your Quote Request has been Submitted. We will get back with you shortly."

type cartQuoteRequest struct {
	quotesvc.ContactForm
	LineItems []lineItemRequest `json:"line_items" validate:"required,min=1,dive"`
}

type lineItemRequest struct {
	ItemID   int `json:"item_id" validate:"required,min=1"`
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// QuoteRequest submits a single-item request for quote from a product page.
func QuoteRequest(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var form quotesvc.SingleQuoteForm
		if isJSONRequest(r) {
			if err := validators.DecodeJSONBody(r, &form); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		} else {
			if err := validators.ParseForm(r); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			form = quotesvc.SingleFromValues(r.PostForm)
		}

		quoteID, err := svc.SubmitSingle(ctx, sessionID, clientIP(r), form)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"quote_id": quoteID,
			"message":  submittedMessage,
		})
	}
}

// QuoteRequestCart submits a multi-line request for quote. Legacy form posts
// carry indexed item_id_<n>/quantity_<n> fields; JSON posts carry a
// structured line_items list.
func QuoteRequestCart(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var contact quotesvc.ContactForm
		var items []catalog.LineItem

		if isJSONRequest(r) {
			var payload cartQuoteRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			contact = payload.ContactForm
			for _, line := range payload.LineItems {
				items = append(items, catalog.LineItem{ItemID: line.ItemID, Qty: line.Quantity})
			}
		} else {
			if err := validators.ParseForm(r); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			contact = quotesvc.ContactFromValues(r.PostForm)
			items = quotesvc.LineItemsFromValues(r.PostForm)
		}

		quoteID, err := svc.SubmitCart(ctx, sessionID, contact, items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"quote_id": quoteID,
			"message":  submittedMessage,
		})
	}
}

// QuoteConfirmation echoes the quote id stored on the session.
func QuoteConfirmation(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		quoteID, err := svc.LastQuoteID(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if quoteID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no quote on this session"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"quote_id": quoteID})
	}
}

// QuoteAddon posts the optional qualification fields for the session's quote.
func QuoteAddon(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var form quotesvc.AddonForm
		if isJSONRequest(r) {
			if err := validators.DecodeJSONBody(r, &form); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		} else {
			if err := validators.ParseForm(r); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			form = quotesvc.AddonFromValues(r.PostForm)
		}

		if err := svc.SubmitAddon(ctx, sessionID, form); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
