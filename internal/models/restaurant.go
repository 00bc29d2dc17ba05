package models

// RestaurantRecord is the denormalized restaurant document keyed by
// business_id. The record store is maintained by an external ingestion
// process; this service only reads it. The search index carries only
// business_id and cuisine and is a derived projection of the store.
type RestaurantRecord struct {
	BusinessID string  `json:"business_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"num_reviews"`
	Cuisine    string  `json:"cuisine"`
	ZipCode    string  `json:"zip_code"`
	InsertedAt string  `json:"inserted_at,omitempty"`
}
