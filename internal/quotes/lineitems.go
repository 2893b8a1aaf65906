package quotes

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/industrialpartner/storefront-backend/internal/catalog"
)

const (
	itemFieldPrefix     = "item_id_"
	quantityFieldPrefix = "quantity_"
)

// LineItemsFromValues reconstructs the cart line items from indexed form
// fields of the shape item_id_<n> / quantity_<n>. An index with a missing or
// non-positive partner value contributes nothing; surviving pairs come back
// ordered by index.
func LineItemsFromValues(values url.Values) []catalog.LineItem {
	indexes := make([]int, 0, len(values))
	byIndex := make(map[int]catalog.LineItem, len(values))

	for key := range values {
		if !strings.HasPrefix(key, itemFieldPrefix) {
			continue
		}
		index, err := strconv.Atoi(key[len(itemFieldPrefix):])
		if err != nil {
			continue
		}
		itemID := parseInt(values.Get(key))
		quantity := parseInt(values.Get(quantityFieldPrefix + strconv.Itoa(index)))
		if itemID <= 0 || quantity <= 0 {
			continue
		}
		indexes = append(indexes, index)
		byIndex[index] = catalog.LineItem{ItemID: itemID, Qty: quantity}
	}

	sort.Ints(indexes)
	items := make([]catalog.LineItem, 0, len(indexes))
	for _, index := range indexes {
		items = append(items, byIndex[index])
	}
	return items
}
