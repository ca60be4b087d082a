package cart

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/internal/zones"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
)

// Aggregation is the zone→farm partition of a cart for one target location.
// Every input item lands in exactly one of Groups or Unserviceable; nothing
// is ever dropped.
type Aggregation struct {
	Groups        []ZoneGroup
	Unserviceable []UnserviceableItem
}

// ZoneGroup collects the farms deliverable through one zone. Groups are
// ordered by zone name, farms within a group by farm name; item order inside
// a farm preserves cart insertion order.
type ZoneGroup struct {
	ZoneID   uuid.UUID
	ZoneName string
	Farms    []FarmGroup
	Subtotal decimal.Decimal
}

// FarmGroup is one farm's slice of a zone group.
type FarmGroup struct {
	FarmID   uuid.UUID
	FarmName string
	Items    []models.CartItem
	Subtotal decimal.Decimal
}

// UnserviceableItem pairs a cart item with the reason it cannot be delivered.
type UnserviceableItem struct {
	Item   models.CartItem
	Reason enums.UnserviceableReason
}

// Aggregate partitions cart items into zone→farm groups for the target
// location. Items whose farm is missing from farms, or whose farm has no zone
// covering the location, are routed to the unserviceable list with a distinct
// reason. Only malformed zone data (one farm, two zones, same location key)
// fails the whole call.
func Aggregate(items []models.CartItem, farms map[uuid.UUID]*models.Farm, locationKey string) (*Aggregation, error) {
	result := &Aggregation{}

	groupIndex := map[uuid.UUID]int{}
	farmIndex := map[uuid.UUID]map[uuid.UUID]int{}

	for _, item := range items {
		farm, ok := farms[item.FarmID]
		if !ok || farm == nil {
			result.Unserviceable = append(result.Unserviceable, UnserviceableItem{
				Item:   item,
				Reason: enums.UnserviceableReasonUnresolvedFarm,
			})
			continue
		}

		zone, err := zones.Resolve(farm, locationKey)
		if err != nil {
			return nil, err
		}
		if zone == nil {
			result.Unserviceable = append(result.Unserviceable, UnserviceableItem{
				Item:   item,
				Reason: enums.UnserviceableReasonNoServiceableZone,
			})
			continue
		}

		gi, ok := groupIndex[zone.ID]
		if !ok {
			gi = len(result.Groups)
			groupIndex[zone.ID] = gi
			farmIndex[zone.ID] = map[uuid.UUID]int{}
			result.Groups = append(result.Groups, ZoneGroup{
				ZoneID:   zone.ID,
				ZoneName: zone.Name,
				Subtotal: decimal.Zero,
			})
		}

		group := &result.Groups[gi]
		fi, ok := farmIndex[zone.ID][farm.ID]
		if !ok {
			fi = len(group.Farms)
			farmIndex[zone.ID][farm.ID] = fi
			group.Farms = append(group.Farms, FarmGroup{
				FarmID:   farm.ID,
				FarmName: farm.Name,
				Subtotal: decimal.Zero,
			})
		}

		line := item.LineTotal()
		group.Farms[fi].Items = append(group.Farms[fi].Items, item)
		group.Farms[fi].Subtotal = group.Farms[fi].Subtotal.Add(line)
		group.Subtotal = group.Subtotal.Add(line)
	}

	sortAggregation(result)
	return result, nil
}

// DeliverableSubtotal sums the group subtotals. Unserviceable items do not
// contribute.
func (a *Aggregation) DeliverableSubtotal() decimal.Decimal {
	total := decimal.Zero
	if a == nil {
		return total
	}
	for _, group := range a.Groups {
		total = total.Add(group.Subtotal)
	}
	return total
}

// ItemCount returns the number of items across groups and the unserviceable
// list; it always equals the aggregation's input length.
func (a *Aggregation) ItemCount() int {
	if a == nil {
		return 0
	}
	count := len(a.Unserviceable)
	for _, group := range a.Groups {
		for _, farm := range group.Farms {
			count += len(farm.Items)
		}
	}
	return count
}

func sortAggregation(a *Aggregation) {
	sort.SliceStable(a.Groups, func(i, j int) bool {
		return a.Groups[i].ZoneName < a.Groups[j].ZoneName
	})
	for gi := range a.Groups {
		group := &a.Groups[gi]
		sort.SliceStable(group.Farms, func(i, j int) bool {
			return group.Farms[i].FarmName < group.Farms[j].FarmName
		})
	}
}
