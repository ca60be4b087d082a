package basket

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

func intPtr(v int) *int { return &v }

func deliverableFarm(name string, areas ...string) *models.Farm {
	return &models.Farm{
		ID:   uuid.New(),
		Name: name,
		DeliveryZones: []models.DeliveryZone{
			{ID: uuid.New(), Name: name + " Zone", Areas: areas},
		},
	}
}

type productSpec struct {
	name      string
	price     string
	organic   bool
	inSeason  bool
	freshness *int
	inStock   bool
}

func buildProduct(farm *models.Farm, spec productSpec) models.Product {
	return models.Product{
		ID:        uuid.New(),
		FarmID:    farm.ID,
		Name:      spec.name,
		Price:     decimal.RequireFromString(spec.price),
		Unit:      "lb",
		Organic:   spec.organic,
		InSeason:  spec.inSeason,
		Freshness: spec.freshness,
		InStock:   spec.inStock,
	}
}

func TestFilterCandidatesPredicates(t *testing.T) {
	t.Parallel()

	local := deliverableFarm("Local", "94107")
	remote := deliverableFarm("Remote", "90001")
	farms := map[uuid.UUID]*models.Farm{local.ID: local, remote.ID: remote}

	keep := buildProduct(local, productSpec{name: "Fresh Kale", price: "2.00", freshness: intPtr(90), inStock: true})
	seasonal := buildProduct(local, productSpec{name: "Seasonal Corn", price: "1.00", inSeason: true, inStock: true})
	outOfStock := buildProduct(local, productSpec{name: "Gone Garlic", price: "1.00", freshness: intPtr(95), inStock: false})
	stale := buildProduct(local, productSpec{name: "Tired Turnips", price: "1.00", freshness: intPtr(50), inStock: true})
	borderline := buildProduct(local, productSpec{name: "Borderline Beets", price: "1.00", freshness: intPtr(80), inStock: true})
	undeliverable := buildProduct(remote, productSpec{name: "Far Figs", price: "1.00", freshness: intPtr(95), inStock: true})
	orphan := buildProduct(deliverableFarm("Ghost", "94107"), productSpec{name: "Orphan Okra", price: "1.00", freshness: intPtr(95), inStock: true})

	products := []models.Product{keep, seasonal, outOfStock, stale, borderline, undeliverable, orphan}

	candidates, err := FilterCandidates(products, farms, types.Preferences{}, "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[string]bool{}
	for _, c := range candidates {
		got[c.Name] = true
	}
	want := map[string]bool{"Fresh Kale": true, "Seasonal Corn": true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrong candidate set: got %v, want %v", got, want)
	}
}

func TestFilterCandidatesOrganicPreference(t *testing.T) {
	t.Parallel()

	farm := deliverableFarm("Local", "94107")
	farms := map[uuid.UUID]*models.Farm{farm.ID: farm}

	organic := buildProduct(farm, productSpec{name: "Organic Kale", price: "2.00", organic: true, inSeason: true, inStock: true})
	regular := buildProduct(farm, productSpec{name: "Regular Kale", price: "1.00", inSeason: true, inStock: true})

	prefs := types.Preferences{DietaryRestrictions: []string{types.DietaryRestrictionOrganic}}
	candidates, err := FilterCandidates([]models.Product{organic, regular}, farms, prefs, "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range candidates {
		if !c.Organic {
			t.Fatalf("non-organic product %q passed the organic filter", c.Name)
		}
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestSelectItemsOrdering(t *testing.T) {
	t.Parallel()

	farm := deliverableFarm("Local", "94107")

	inSeasonCheap := buildProduct(farm, productSpec{name: "A", price: "1.00", inSeason: true, freshness: intPtr(85), inStock: true})
	inSeasonPricey := buildProduct(farm, productSpec{name: "B", price: "5.00", inSeason: true, freshness: intPtr(85), inStock: true})
	freshest := buildProduct(farm, productSpec{name: "C", price: "1.00", freshness: intPtr(99), inStock: true})
	fresher := buildProduct(farm, productSpec{name: "D", price: "1.00", freshness: intPtr(90), inStock: true})

	// Feed in scrambled order; selection must not depend on it.
	selected := SelectItems([]models.Product{fresher, inSeasonPricey, freshest, inSeasonCheap}, 10)

	names := make([]string, len(selected))
	for i, p := range selected {
		names[i] = p.Name
	}
	want := []string{"A", "B", "C", "D"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("wrong selection order: got %v, want %v", names, want)
	}
}

func TestSelectItemsUUIDTieBreak(t *testing.T) {
	t.Parallel()

	farm := deliverableFarm("Local", "94107")
	a := buildProduct(farm, productSpec{name: "Twin A", price: "1.00", inSeason: true, inStock: true})
	b := buildProduct(farm, productSpec{name: "Twin B", price: "1.00", inSeason: true, inStock: true})

	first := SelectItems([]models.Product{a, b}, 2)
	second := SelectItems([]models.Product{b, a}, 2)
	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Fatal("identical inputs in different order produced different selections")
	}
	if first[0].ID.String() > first[1].ID.String() {
		t.Fatal("expected ascending product id tie-break")
	}
}

func TestSelectItemsTruncatesToBasketSize(t *testing.T) {
	t.Parallel()

	farm := deliverableFarm("Local", "94107")
	var products []models.Product
	for i := 0; i < 8; i++ {
		products = append(products, buildProduct(farm, productSpec{name: "P", price: "1.00", inSeason: true, inStock: true}))
	}

	if got := len(SelectItems(products, 3)); got != 3 {
		t.Fatalf("expected 3 selected, got %d", got)
	}
	if got := SelectItems(nil, 3); got != nil {
		t.Fatalf("expected empty selection from empty candidates, got %v", got)
	}
}

func TestGenerateScenarioOrganicSubset(t *testing.T) {
	t.Parallel()

	farm := deliverableFarm("Local", "94107")
	farms := map[uuid.UUID]*models.Farm{farm.ID: farm}

	var products []models.Product
	var eligible []uuid.UUID
	for i := 0; i < 5; i++ {
		p := buildProduct(farm, productSpec{name: "Eligible", price: "2.00", organic: true, inSeason: true, inStock: true})
		eligible = append(eligible, p.ID)
		products = append(products, p)
	}
	for i := 0; i < 4; i++ {
		products = append(products, buildProduct(farm, productSpec{name: "Conventional", price: "2.00", inSeason: true, inStock: true}))
	}
	for i := 0; i < 3; i++ {
		products = append(products, buildProduct(farm, productSpec{name: "Organic Stale", price: "2.00", organic: true, freshness: intPtr(40), inStock: true}))
	}
	for i := 0; i < 3; i++ {
		products = append(products, buildProduct(farm, productSpec{name: "Organic Sold Out", price: "2.00", organic: true, inSeason: true, inStock: false}))
	}
	if len(products) != 15 {
		t.Fatalf("scenario wants 15 products, got %d", len(products))
	}

	prefs := types.Preferences{DietaryRestrictions: []string{types.DietaryRestrictionOrganic}}
	candidates, err := FilterCandidates(products, farms, prefs, "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	selected := SelectItems(candidates, 10)

	if len(selected) != 5 {
		t.Fatalf("expected exactly the 5 eligible products, got %d", len(selected))
	}
	got := map[uuid.UUID]bool{}
	for _, p := range selected {
		got[p.ID] = true
	}
	for _, id := range eligible {
		if !got[id] {
			t.Fatalf("eligible product %s missing from selection", id)
		}
	}
	for i := 1; i < len(selected); i++ {
		if selected[i-1].ID.String() > selected[i].ID.String() {
			t.Fatal("selection not sorted by the tie-break rule")
		}
	}
}
