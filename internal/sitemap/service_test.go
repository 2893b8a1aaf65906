package sitemap

import (
	"context"
	"errors"
	"testing"

	"github.com/industrialpartner/storefront-backend/internal/catalog"
)

type stubListings struct {
	manufacturerPages []catalog.Page
	itemPages         []catalog.Page
	failOnPage        int

	manufacturerCalls int
	itemCalls         int
}

func (s *stubListings) Manufacturers(ctx context.Context, brandName string, page int) (catalog.Page, error) {
	s.manufacturerCalls++
	if s.failOnPage > 0 && page == s.failOnPage {
		return catalog.Page{}, errors.New("upstream down")
	}
	if page < 1 || page > len(s.manufacturerPages) {
		return catalog.Page{}, nil
	}
	return s.manufacturerPages[page-1], nil
}

func (s *stubListings) Items(ctx context.Context, q catalog.ItemsQuery) (catalog.Page, error) {
	s.itemCalls++
	if q.Page < 1 || q.Page > len(s.itemPages) {
		return catalog.Page{}, nil
	}
	return s.itemPages[q.Page-1], nil
}

func manufacturerRecord(name string) catalog.Record {
	return catalog.Record{"ManufacturerStandardized": name}
}

func TestManufacturersCrawlsEveryPage(t *testing.T) {
	stub := &stubListings{manufacturerPages: []catalog.Page{
		{Items: []catalog.Record{manufacturerRecord("Acme Corp"), manufacturerRecord("Apex Tools")}, Pages: 2},
		{Items: []catalog.Record{manufacturerRecord("Atlas Valve")}, Pages: 2},
	}}
	svc, err := NewService(stub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	feed, err := svc.Manufacturers(context.Background(), "A")
	if err != nil {
		t.Fatalf("manufacturers: %v", err)
	}
	if len(feed.Manufacturers) != 3 {
		t.Fatalf("got %d manufacturers, want 3", len(feed.Manufacturers))
	}
	if stub.manufacturerCalls != 2 {
		t.Fatalf("fetch calls = %d, want 2", stub.manufacturerCalls)
	}
	if feed.BrandName != "A" {
		t.Fatalf("brand name = %q, want A", feed.BrandName)
	}
	if got := feed.Manufacturers[0].Field("Manufacturer_A"); got != "Acme Corp" {
		t.Fatalf("brand-letter annotation = %q, want Acme Corp", got)
	}
}

func TestManufacturersStopsOnEmptyPage(t *testing.T) {
	stub := &stubListings{manufacturerPages: []catalog.Page{
		{Items: []catalog.Record{manufacturerRecord("Acme Corp")}, Pages: 9},
		{Items: nil, Pages: 9},
	}}
	svc, _ := NewService(stub)

	feed, err := svc.Manufacturers(context.Background(), "A")
	if err != nil {
		t.Fatalf("manufacturers: %v", err)
	}
	if len(feed.Manufacturers) != 1 {
		t.Fatalf("got %d manufacturers, want 1", len(feed.Manufacturers))
	}
	if stub.manufacturerCalls != 2 {
		t.Fatalf("fetch calls = %d, want 2", stub.manufacturerCalls)
	}
}

func TestManufacturersKeepsPartialResultsOnFetchError(t *testing.T) {
	stub := &stubListings{
		manufacturerPages: []catalog.Page{
			{Items: []catalog.Record{manufacturerRecord("Acme Corp")}, Pages: 3},
			{Items: []catalog.Record{manufacturerRecord("Apex Tools")}, Pages: 3},
		},
		failOnPage: 2,
	}
	svc, _ := NewService(stub)

	feed, err := svc.Manufacturers(context.Background(), "A")
	if err == nil {
		t.Fatal("expected the page failure to be reported")
	}
	if len(feed.Manufacturers) != 1 {
		t.Fatalf("got %d manufacturers, want the first page's 1", len(feed.Manufacturers))
	}
}

func TestManufacturersPageAnnotatesAndEchoesPaging(t *testing.T) {
	stub := &stubListings{manufacturerPages: []catalog.Page{
		{Items: []catalog.Record{manufacturerRecord("baldor electric")}, Pages: 4},
	}}
	svc, _ := NewService(stub)

	page, err := svc.ManufacturersPage(context.Background(), "B", 1)
	if err != nil {
		t.Fatalf("manufacturers page: %v", err)
	}
	if page.Pages != 4 || page.CurrentPage != 1 {
		t.Fatalf("paging = %d/%d, want 4/1", page.Pages, page.CurrentPage)
	}
	if got := page.Manufacturers[0].Field("Manufacturer_B"); got != "baldor electric" {
		t.Fatalf("annotation = %q, want baldor electric", got)
	}
}

func TestProductsTakesManufacturerNameFromFirstItem(t *testing.T) {
	stub := &stubListings{itemPages: []catalog.Page{
		{Items: []catalog.Record{
			{"PartNumber": "PN-1", "Manufacturer": map[string]any{"Manufacturer": "Acme Corp"}},
			{"PartNumber": "PN-2"},
		}, Pages: 1},
	}}
	svc, _ := NewService(stub)

	feed, err := svc.Products(context.Background(), "42")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if feed.ManufacturerName != "Acme Corp" {
		t.Fatalf("manufacturer name = %q, want Acme Corp", feed.ManufacturerName)
	}
	if feed.ManufacturerID != "42" || len(feed.Items) != 2 {
		t.Fatalf("unexpected feed: %+v", feed)
	}
}

func TestProductsEmptyManufacturer(t *testing.T) {
	svc, _ := NewService(&stubListings{})

	feed, err := svc.Products(context.Background(), "42")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if feed.ManufacturerName != "" || len(feed.Items) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
}
