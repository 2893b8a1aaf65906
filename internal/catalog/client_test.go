package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/industrialpartner/storefront-backend/pkg/config"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
)

func testClient(t *testing.T, baseURL string, retries int) *Client {
	t.Helper()
	client, err := NewClient(config.UpstreamConfig{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		RetryAttempts:  retries,
		RetryBaseDelay: time.Millisecond,
	}, testLogger(), nil)
	require.NoError(t, err)
	return client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestManufacturersParsesRemotePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manufacturer", r.URL.Path)
		assert.Equal(t, "A", r.URL.Query().Get("brand_name"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"items":[{"ManufacturerStandardized":"Acme"}],"total":51,"size":50,"pages":2}`))
	}))
	defer server.Close()

	page, err := testClient(t, server.URL, 0).Manufacturers(context.Background(), "A", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Acme", page.Items[0].Field("ManufacturerStandardized"))
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 50, page.Size)
}

func TestListingFailuresReadAsEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL, 0)

	page, err := client.Items(context.Background(), ItemsQuery{ManufacturerLookup: "nope", Page: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Pages)

	server.Close() // transport failure path
	page, err = client.Manufacturers(context.Background(), "A", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestItemsQueryEncodesFilters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"items":[],"total":0,"size":50,"pages":1}`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, 0).Items(context.Background(), ItemsQuery{
		ManufacturerID: "12",
		PartNumber:     "PN-9",
		Page:           0, // clamps to 1
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "manufacturer_id=12")
	assert.Contains(t, gotQuery, "part_number=PN-9")
	assert.Contains(t, gotQuery, "page=1")
}

func TestItemDetailSurfacesUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, 0).ItemDetail(context.Background(), "7")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	assert.Equal(t, http.StatusNotFound, typed.HTTPStatus())
}

func TestItemDetailSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/7", r.URL.Path)
		w.Write([]byte(`{"PartNumber":"PN-7","Slug":"widget-42","Manufacturer":{"ManufacturerLookup":"ACME"}}`))
	}))
	defer server.Close()

	record, err := testClient(t, server.URL, 0).ItemDetail(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "widget-42", record.Slug())
	assert.Equal(t, "ACME", record.ManufacturerLookup())
}

func TestGetRetriesTransientServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"PartNumber":"PN-7","Slug":"s"}`))
	}))
	defer server.Close()

	record, err := testClient(t, server.URL, 2).ItemDetail(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "PN-7", record.Field("PartNumber"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateQuoteNeverRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, 3).CreateQuote(context.Background(), QuotePayload{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, http.StatusInternalServerError, typed.HTTPStatus())
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateQuoteReturnsQuoteID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quotes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"QuoteID":"Q-123"}`))
	}))
	defer server.Close()

	quoteID, err := testClient(t, server.URL, 0).CreateQuote(context.Background(), QuotePayload{
		FirstName: "Ada",
		LineItems: []LineItem{{ItemID: 7, Qty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Q-123", quoteID)
}

func TestRequestInfoPathAndFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes/request-info/Q-123", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := testClient(t, server.URL, 0).RequestInfo(context.Background(), "Q-123", RequestInfoPayload{
		IPAddress: "10.0.0.1",
		Source:    "industrialpartner-web",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, http.StatusBadGateway, typed.HTTPStatus())
}
