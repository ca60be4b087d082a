package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
)

func zoneFarm(name string, zoneName string, areas ...string) *models.Farm {
	return &models.Farm{
		ID:   uuid.New(),
		Name: name,
		DeliveryZones: []models.DeliveryZone{
			{ID: uuid.New(), Name: zoneName, Areas: areas},
		},
	}
}

func item(farm *models.Farm, name string, price string, qty int) models.CartItem {
	return models.CartItem{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		FarmID:      farm.ID,
		FarmName:    farm.Name,
		ProductName: name,
		Price:       decimal.RequireFromString(price),
		Quantity:    qty,
		Unit:        "lb",
		ItemType:    enums.CartItemTypeProduct,
	}
}

func farmMap(farms ...*models.Farm) map[uuid.UUID]*models.Farm {
	m := make(map[uuid.UUID]*models.Farm, len(farms))
	for _, f := range farms {
		m[f.ID] = f
	}
	return m
}

func TestAggregateSplitsServiceableAndNot(t *testing.T) {
	t.Parallel()

	farmA := zoneFarm("Farm A", "SF", "94107")
	farmB := zoneFarm("Farm B", "LA", "90001")

	items := []models.CartItem{
		item(farmA, "Heirloom Tomatoes", "4.50", 2),
		item(farmA, "Basil", "2.00", 1),
		item(farmB, "Avocados", "3.25", 3),
	}

	agg, err := Aggregate(items, farmMap(farmA, farmB), "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(agg.Groups) != 1 {
		t.Fatalf("expected one zone group, got %d", len(agg.Groups))
	}
	group := agg.Groups[0]
	if group.ZoneName != "SF" {
		t.Fatalf("expected SF group, got %q", group.ZoneName)
	}
	if len(group.Farms) != 1 || group.Farms[0].FarmID != farmA.ID {
		t.Fatalf("expected single Farm A group, got %+v", group.Farms)
	}
	if got := len(group.Farms[0].Items); got != 2 {
		t.Fatalf("expected Farm A to keep both items, got %d", got)
	}

	if len(agg.Unserviceable) != 1 {
		t.Fatalf("expected one unserviceable item, got %d", len(agg.Unserviceable))
	}
	bad := agg.Unserviceable[0]
	if bad.Item.FarmID != farmB.ID {
		t.Fatalf("expected Farm B item to be unserviceable, got %+v", bad.Item)
	}
	if bad.Reason != enums.UnserviceableReasonNoServiceableZone {
		t.Fatalf("expected no_serviceable_zone, got %q", bad.Reason)
	}
}

func TestAggregateCompleteness(t *testing.T) {
	t.Parallel()

	farmA := zoneFarm("Farm A", "SF", "94107")
	farmB := zoneFarm("Farm B", "LA", "90001")
	ghost := zoneFarm("Ghost Farm", "SF", "94107")

	items := []models.CartItem{
		item(farmA, "Kale", "3.00", 1),
		item(ghost, "Phantom Squash", "5.00", 1),
		item(farmB, "Oranges", "6.00", 2),
		item(farmA, "Carrots", "1.50", 4),
	}

	// ghost never makes it into the lookup map
	agg, err := Aggregate(items, farmMap(farmA, farmB), "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := agg.ItemCount(); got != len(items) {
		t.Fatalf("aggregation dropped items: want %d, got %d", len(items), got)
	}

	reasons := map[enums.UnserviceableReason]int{}
	for _, u := range agg.Unserviceable {
		reasons[u.Reason]++
	}
	if reasons[enums.UnserviceableReasonUnresolvedFarm] != 1 {
		t.Fatalf("expected one unresolved_farm item, got %+v", reasons)
	}
	if reasons[enums.UnserviceableReasonNoServiceableZone] != 1 {
		t.Fatalf("expected one no_serviceable_zone item, got %+v", reasons)
	}
}

func TestAggregateSubtotals(t *testing.T) {
	t.Parallel()

	farmA := zoneFarm("Farm A", "SF", "94107")
	farmB := zoneFarm("Farm B", "SF North", "94107")
	// Distinct zones covering the same key on distinct farms is fine; only
	// overlap within a single farm is malformed.

	items := []models.CartItem{
		item(farmA, "Tomatoes", "4.50", 2), // 9.00
		item(farmB, "Peaches", "3.10", 3),  // 9.30
		item(farmA, "Basil", "2.00", 1),    // 2.00
	}

	agg, err := Aggregate(items, farmMap(farmA, farmB), "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, group := range agg.Groups {
		farmSum := decimal.Zero
		for _, fg := range group.Farms {
			itemSum := decimal.Zero
			for _, it := range fg.Items {
				itemSum = itemSum.Add(it.LineTotal())
			}
			if !fg.Subtotal.Equal(itemSum) {
				t.Fatalf("farm subtotal mismatch: %s vs %s", fg.Subtotal, itemSum)
			}
			farmSum = farmSum.Add(fg.Subtotal)
		}
		if !group.Subtotal.Equal(farmSum) {
			t.Fatalf("zone subtotal mismatch: %s vs %s", group.Subtotal, farmSum)
		}
	}

	want := decimal.RequireFromString("20.30")
	if got := agg.DeliverableSubtotal(); !got.Equal(want) {
		t.Fatalf("expected deliverable subtotal %s, got %s", want, got)
	}
}

func TestAggregateOrderingIsDeterministic(t *testing.T) {
	t.Parallel()

	farmZ := zoneFarm("Zebra Farm", "West", "94107")
	farmA := zoneFarm("Apple Farm", "West", "94107")
	farmM := zoneFarm("Maple Farm", "East", "94107")

	items := []models.CartItem{
		item(farmZ, "Corn", "1.00", 1),
		item(farmM, "Syrup", "9.00", 1),
		item(farmA, "Apples", "2.00", 1),
		item(farmZ, "Beans", "1.25", 2),
	}

	agg, err := Aggregate(items, farmMap(farmZ, farmA, farmM), "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(agg.Groups) != 3 {
		t.Fatalf("expected three zone groups, got %d", len(agg.Groups))
	}
	// Zones ascend by name; the two West zones are distinct (one per farm)
	// and tie stably in first-seen order.
	names := []string{agg.Groups[0].ZoneName, agg.Groups[1].ZoneName, agg.Groups[2].ZoneName}
	if names[0] != "East" || names[1] != "West" || names[2] != "West" {
		t.Fatalf("zone groups out of order: %v", names)
	}
	if agg.Groups[1].Farms[0].FarmName != "Zebra Farm" || agg.Groups[2].Farms[0].FarmName != "Apple Farm" {
		t.Fatalf("tied zone groups not in first-seen order: %q then %q",
			agg.Groups[1].Farms[0].FarmName, agg.Groups[2].Farms[0].FarmName)
	}

	// Items keep cart insertion order inside a farm group.
	zebra := agg.Groups[1].Farms[0]
	if zebra.Items[0].ProductName != "Corn" || zebra.Items[1].ProductName != "Beans" {
		t.Fatalf("items reordered: %q, %q", zebra.Items[0].ProductName, zebra.Items[1].ProductName)
	}
}

func TestAggregatePropagatesOverlapError(t *testing.T) {
	t.Parallel()

	farm := &models.Farm{
		ID:   uuid.New(),
		Name: "Twin Peaks",
		DeliveryZones: []models.DeliveryZone{
			{ID: uuid.New(), Name: "North", Areas: []string{"94107"}},
			{ID: uuid.New(), Name: "South", Areas: []string{"94107"}},
		},
	}

	_, err := Aggregate([]models.CartItem{item(farm, "Plums", "2.00", 1)}, farmMap(farm), "94107")
	if err == nil {
		t.Fatal("expected overlap to fail aggregation")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDataIntegrity {
		t.Fatalf("expected data integrity error, got %v", err)
	}
}

func TestAggregateEmptyCart(t *testing.T) {
	t.Parallel()

	agg, err := Aggregate(nil, map[uuid.UUID]*models.Farm{}, "94107")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agg.Groups) != 0 || len(agg.Unserviceable) != 0 {
		t.Fatalf("expected empty aggregation, got %+v", agg)
	}
	if !agg.DeliverableSubtotal().IsZero() {
		t.Fatalf("expected zero subtotal, got %s", agg.DeliverableSubtotal())
	}
}
