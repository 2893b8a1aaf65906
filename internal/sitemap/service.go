package sitemap

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/industrialpartner/storefront-backend/internal/catalog"
)

// listingClient is the slice of the catalog client the feeds need.
type listingClient interface {
	Manufacturers(ctx context.Context, brandName string, page int) (catalog.Page, error)
	Items(ctx context.Context, q catalog.ItemsQuery) (catalog.Page, error)
}

// ManufacturerFeed is the fully crawled manufacturer list for one brand letter.
type ManufacturerFeed struct {
	BrandName     string           `json:"brand_name"`
	Manufacturers []catalog.Record `json:"manufacturers"`
}

// ManufacturerPage is one page of the incremental manufacturer feed.
type ManufacturerPage struct {
	Manufacturers []catalog.Record `json:"manufacturers"`
	Pages         int              `json:"pages"`
	CurrentPage   int              `json:"current_page"`
}

// ProductFeed is the fully crawled item list for one manufacturer.
type ProductFeed struct {
	ManufacturerID   string           `json:"manufacturer_id"`
	ManufacturerName string           `json:"manufacturer_name"`
	Items            []catalog.Record `json:"items"`
}

// Service builds the sitemap feeds by walking every page of the remote
// listings. Crawls return whatever pages succeeded alongside any page errors.
type Service interface {
	Manufacturers(ctx context.Context, brandName string) (ManufacturerFeed, error)
	ManufacturersPage(ctx context.Context, brandName string, page int) (ManufacturerPage, error)
	Products(ctx context.Context, manufacturerID string) (ProductFeed, error)
}

type service struct {
	client listingClient
}

// NewService validates its dependencies and returns a sitemap Service.
func NewService(client listingClient) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("sitemap: catalog client is required")
	}
	return &service{client: client}, nil
}

func (s *service) Manufacturers(ctx context.Context, brandName string) (ManufacturerFeed, error) {
	records, err := crawl(ctx, func(ctx context.Context, page int) (catalog.Page, error) {
		return s.client.Manufacturers(ctx, brandName, page)
	})
	for i := range records {
		records[i] = annotateBrandLetter(records[i])
	}
	return ManufacturerFeed{BrandName: brandName, Manufacturers: records}, err
}

func (s *service) ManufacturersPage(ctx context.Context, brandName string, page int) (ManufacturerPage, error) {
	listing, err := s.client.Manufacturers(ctx, brandName, page)
	if err != nil {
		return ManufacturerPage{}, err
	}
	records := listing.Items
	for i := range records {
		records[i] = annotateBrandLetter(records[i])
	}
	return ManufacturerPage{
		Manufacturers: records,
		Pages:         listing.Pages,
		CurrentPage:   page,
	}, nil
}

func (s *service) Products(ctx context.Context, manufacturerID string) (ProductFeed, error) {
	records, err := crawl(ctx, func(ctx context.Context, page int) (catalog.Page, error) {
		return s.client.Items(ctx, catalog.ItemsQuery{ManufacturerID: manufacturerID, Page: page})
	})

	feed := ProductFeed{ManufacturerID: manufacturerID, Items: records}
	if len(records) > 0 {
		feed.ManufacturerName = records[0].Child("Manufacturer").Field("Manufacturer")
	}
	return feed, err
}

// crawl walks remote pages starting at 1 until a page comes back empty, the
// remote's own page count is reached, or a fetch fails. Pages gathered before
// a failure are still returned, with the failure recorded against its page.
func crawl(ctx context.Context, fetch func(ctx context.Context, page int) (catalog.Page, error)) ([]catalog.Record, error) {
	var all []catalog.Record
	var errs error

	for page := 1; ; page++ {
		listing, err := fetch(ctx, page)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("fetching page %d: %w", page, err))
			break
		}
		if len(listing.Items) == 0 {
			break
		}
		all = append(all, listing.Items...)
		if page >= listing.Pages {
			break
		}
	}
	return all, errs
}

// annotateBrandLetter adds the Manufacturer_<letter> key the feed templates
// group by, derived from the standardized manufacturer name.
func annotateBrandLetter(record catalog.Record) catalog.Record {
	name := record.Field("ManufacturerStandardized")
	if name == "" {
		return record
	}
	annotated := make(catalog.Record, len(record)+1)
	for key, value := range record {
		annotated[key] = value
	}
	letter := strings.ToUpper(name[:1])
	annotated["Manufacturer_"+letter] = name
	return annotated
}
