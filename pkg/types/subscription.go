package types

// SubscriptionPlan captures the recurrence metadata carried by subscription
// cart items. Stored as jsonb alongside the item.
type SubscriptionPlan struct {
	Frequency   string `json:"frequency"`
	DeliveryDay string `json:"delivery_day"`
}
