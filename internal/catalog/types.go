package catalog

import "context"

// Record is one loosely-typed JSON object from the remote catalog API. The
// remote schema is owned elsewhere; views pass these through mostly untouched.
type Record map[string]any

// Field returns the string value stored under key, or "" when absent or not
// a string.
func (r Record) Field(key string) string {
	if r == nil {
		return ""
	}
	value, ok := r[key].(string)
	if !ok {
		return ""
	}
	return value
}

// Child returns the nested object stored under key, or nil.
func (r Record) Child(key string) Record {
	if r == nil {
		return nil
	}
	child, ok := r[key].(map[string]any)
	if !ok {
		return nil
	}
	return Record(child)
}

// Slug returns the canonical URL slug the remote API assigned to an item.
func (r Record) Slug() string {
	return r.Field("Slug")
}

// ManufacturerLookup returns the item's canonical manufacturer lookup code,
// checking the nested Manufacturer object first.
func (r Record) ManufacturerLookup() string {
	if code := r.Child("Manufacturer").Field("ManufacturerLookup"); code != "" {
		return code
	}
	return r.Field("ManufacturerLookup")
}

// Page is one page of a remote listing plus the remote API's own pagination
// metadata.
type Page struct {
	Items []Record `json:"items"`
	Total int      `json:"total"`
	Size  int      `json:"size"`
	Pages int      `json:"pages"`
}

// Browser is the read-only catalog surface the storefront views consume.
// *Client satisfies it.
type Browser interface {
	Manufacturers(ctx context.Context, brandName string, page int) (Page, error)
	Items(ctx context.Context, q ItemsQuery) (Page, error)
	ItemDetail(ctx context.Context, itemID string) (Record, error)
}

// ItemsQuery captures the filters accepted by the remote /items endpoint.
// Zero-valued fields are omitted from the request.
type ItemsQuery struct {
	ManufacturerID     string
	ManufacturerLookup string
	Manufacturer       string
	SimpleType         string
	PartNumber         string
	Page               int
}

// LineItem is one (item, quantity) pair inside a quote request.
type LineItem struct {
	ItemID int `json:"ItemID"`
	Qty    int `json:"Qty"`
}

// QuotePayload is the body posted to the remote quote-creation endpoint.
// Field names follow the remote API's schema.
type QuotePayload struct {
	Notes     string     `json:"Notes"`
	Comments  string     `json:"Comments"`
	FirstName string     `json:"FirstName"`
	LastName  string     `json:"LastName"`
	Company   string     `json:"Company"`
	Phone     string     `json:"Phone"`
	Email     string     `json:"Email"`
	LineItems []LineItem `json:"LineItems"`
}

// QuoteResponse carries the identifier the remote API assigns on creation.
type QuoteResponse struct {
	QuoteID string `json:"QuoteID"`
}

// RequestInfoPayload is the follow-up call tagged with the requester's IP.
type RequestInfoPayload struct {
	QuoteID    string `json:"QuoteID"`
	IPAddress  string `json:"IPAddress"`
	Source     string `json:"Source"`
	IsFirstRFQ bool   `json:"IsFirstRFQ"`
}

// AddonPayload carries the optional qualification fields posted after a quote.
type AddonPayload struct {
	Address1 string `json:"Address1"`
	Address2 string `json:"Address2,omitempty"`
	City     string `json:"City"`
	State    string `json:"State"`
	Zip      string `json:"Zip"`
	Industry string `json:"Industry"`
	Purpose  string `json:"Purpose"`
}
