package domain

// Hotel is the normalized shape handed to callers; it is rebuilt on every search.
type Hotel struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	TotalPrice      float64  `json:"totalPrice"` // whole stay, not nightly
	Currency        string   `json:"currency"`
	ImageURL        string   `json:"imageUrl"`
	Rating          float64  `json:"rating"`          // 0-5
	RatingEstimated bool     `json:"ratingEstimated"` // true when Rating is a placeholder
	Amenities       []string `json:"amenities"`       // at most 6, raw provider codes
	Description     string   `json:"description"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}
