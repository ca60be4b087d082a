package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/harvestlane/farmbasket-backend/internal/cart"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

type productResponse struct {
	ID        uuid.UUID       `json:"id"`
	FarmID    uuid.UUID       `json:"farm_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	Organic   bool            `json:"organic"`
	InSeason  bool            `json:"in_season"`
	Freshness *int            `json:"freshness,omitempty"`
	Seasons   []string        `json:"seasons"`
	InStock   bool            `json:"in_stock"`
	CreatedAt time.Time       `json:"created_at"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		FarmID:    p.FarmID,
		Name:      p.Name,
		Category:  p.CategoryID,
		Price:     p.Price,
		Unit:      p.Unit,
		Organic:   p.Organic,
		InSeason:  p.InSeason,
		Freshness: p.Freshness,
		Seasons:   p.Seasons,
		InStock:   p.InStock,
		CreatedAt: p.CreatedAt,
	}
}

type zoneResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Position              int             `json:"position"`
	Areas                 []string        `json:"areas"`
	DeliveryDays          []string        `json:"delivery_days"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	MinimumOrder          decimal.Decimal `json:"minimum_order"`
	EstimatedDeliveryTime string          `json:"estimated_delivery_time,omitempty"`
}

type farmResponse struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Zones []zoneResponse `json:"delivery_zones"`
}

func newFarmResponse(f models.Farm) farmResponse {
	zones := make([]zoneResponse, 0, len(f.DeliveryZones))
	for _, zone := range f.DeliveryZones {
		zones = append(zones, zoneResponse{
			ID:                    zone.ID,
			Name:                  zone.Name,
			Position:              zone.Position,
			Areas:                 zone.Areas,
			DeliveryDays:          zone.DeliveryDays,
			DeliveryFee:           zone.DeliveryFee,
			MinimumOrder:          zone.MinimumOrder,
			EstimatedDeliveryTime: zone.EstimatedDeliveryTime,
		})
	}
	return farmResponse{ID: f.ID, Name: f.Name, Zones: zones}
}

type cartItemResponse struct {
	ID           uuid.UUID               `json:"id"`
	ProductID    uuid.UUID               `json:"product_id"`
	FarmID       uuid.UUID               `json:"farm_id"`
	FarmName     string                  `json:"farm_name"`
	ProductName  string                  `json:"product_name"`
	Price        decimal.Decimal         `json:"price"`
	Quantity     int                     `json:"quantity"`
	Unit         string                  `json:"unit"`
	ItemType     string                  `json:"item_type"`
	Subscription *types.SubscriptionPlan `json:"subscription,omitempty"`
	LineTotal    decimal.Decimal         `json:"line_total"`
}

func newCartItemResponse(item models.CartItem) cartItemResponse {
	return cartItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		FarmID:       item.FarmID,
		FarmName:     item.FarmName,
		ProductName:  item.ProductName,
		Price:        item.Price,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		ItemType:     string(item.ItemType),
		Subscription: item.Subscription,
		LineTotal:    item.LineTotal(),
	}
}

type farmGroupResponse struct {
	FarmID   uuid.UUID          `json:"farm_id"`
	FarmName string             `json:"farm_name"`
	Items    []cartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

type zoneGroupResponse struct {
	ZoneID   uuid.UUID           `json:"zone_id"`
	ZoneName string              `json:"zone_name"`
	Farms    []farmGroupResponse `json:"farms"`
	Subtotal decimal.Decimal     `json:"subtotal"`
}

type unserviceableResponse struct {
	Item   cartItemResponse `json:"item"`
	Reason string           `json:"reason"`
}

type aggregationResponse struct {
	Groups        []zoneGroupResponse     `json:"groups"`
	Unserviceable []unserviceableResponse `json:"unserviceable"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
}

func newAggregationResponse(agg *cartsvc.Aggregation) *aggregationResponse {
	if agg == nil {
		return nil
	}
	out := &aggregationResponse{
		Groups:        make([]zoneGroupResponse, 0, len(agg.Groups)),
		Unserviceable: make([]unserviceableResponse, 0, len(agg.Unserviceable)),
		Subtotal:      agg.DeliverableSubtotal(),
	}
	for _, group := range agg.Groups {
		farms := make([]farmGroupResponse, 0, len(group.Farms))
		for _, farm := range group.Farms {
			items := make([]cartItemResponse, 0, len(farm.Items))
			for _, item := range farm.Items {
				items = append(items, newCartItemResponse(item))
			}
			farms = append(farms, farmGroupResponse{
				FarmID:   farm.FarmID,
				FarmName: farm.FarmName,
				Items:    items,
				Subtotal: farm.Subtotal,
			})
		}
		out.Groups = append(out.Groups, zoneGroupResponse{
			ZoneID:   group.ZoneID,
			ZoneName: group.ZoneName,
			Farms:    farms,
			Subtotal: group.Subtotal,
		})
	}
	for _, u := range agg.Unserviceable {
		out.Unserviceable = append(out.Unserviceable, unserviceableResponse{
			Item:   newCartItemResponse(u.Item),
			Reason: string(u.Reason),
		})
	}
	return out
}

type cartResponse struct {
	ID          uuid.UUID            `json:"id"`
	Status      string               `json:"status"`
	Items       []cartItemResponse   `json:"items"`
	Aggregation *aggregationResponse `json:"aggregation,omitempty"`
}

func newCartResponse(record *models.CartRecord, agg *cartsvc.Aggregation) cartResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, newCartItemResponse(item))
	}
	return cartResponse{
		ID:          record.ID,
		Status:      string(record.Status),
		Items:       items,
		Aggregation: newAggregationResponse(agg),
	}
}
