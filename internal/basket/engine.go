package basket

import (
	"sort"

	"github.com/google/uuid"

	"github.com/harvestlane/farmbasket-backend/internal/zones"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

// freshnessThreshold is the minimum freshness score a product needs when it is
// not in season.
const freshnessThreshold = 80

// FilterCandidates reduces the catalog to products eligible for the curated
// basket: in stock, organic when the customer requires it, fresh or in season,
// and deliverable to the location. Products whose farm is missing from farms
// are treated as not deliverable. Malformed zone data fails the whole call.
func FilterCandidates(products []models.Product, farms map[uuid.UUID]*models.Farm, prefs types.Preferences, locationKey string) ([]models.Product, error) {
	requireOrganic := prefs.HasRestriction(types.DietaryRestrictionOrganic)

	var candidates []models.Product
	for _, product := range products {
		if !product.InStock {
			continue
		}
		if requireOrganic && !product.Organic {
			continue
		}
		if !freshEnough(product) {
			continue
		}
		farm, ok := farms[product.FarmID]
		if !ok || farm == nil {
			continue
		}
		serviceable, err := zones.Serviceable(farm, locationKey)
		if err != nil {
			return nil, err
		}
		if !serviceable {
			continue
		}
		candidates = append(candidates, product)
	}
	return candidates, nil
}

// SelectItems deterministically picks up to basketSize products from the
// candidates. Order is (inSeason desc, freshness desc, price asc, productId
// asc); identical inputs always produce the identical ordered selection.
func SelectItems(candidates []models.Product, basketSize int) []models.Product {
	if basketSize <= 0 || len(candidates) == 0 {
		return nil
	}

	selected := make([]models.Product, len(candidates))
	copy(selected, candidates)
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.InSeason != b.InSeason {
			return a.InSeason
		}
		fa, fb := freshnessOf(a), freshnessOf(b)
		if fa != fb {
			return fa > fb
		}
		if cmp := a.Price.Cmp(b.Price); cmp != 0 {
			return cmp < 0
		}
		return a.ID.String() < b.ID.String()
	})

	if len(selected) > basketSize {
		selected = selected[:basketSize]
	}
	return selected
}

func freshEnough(product models.Product) bool {
	if product.Freshness != nil && *product.Freshness > freshnessThreshold {
		return true
	}
	return product.InSeason
}

func freshnessOf(product models.Product) int {
	if product.Freshness == nil {
		return -1
	}
	return *product.Freshness
}
