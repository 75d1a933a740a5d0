package types

// TripHotel is a hotel card in a generated itinerary.
type TripHotel struct {
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	Price       string  `json:"price,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// TripPlace is a place to visit in a generated itinerary.
type TripPlace struct {
	Name        string  `json:"name"`
	Details     string  `json:"details,omitempty"`
	TicketPrice string  `json:"ticket_price,omitempty"`
	TravelTime  string  `json:"travel_time,omitempty"`
	BestTime    string  `json:"best_time,omitempty"`
	Day         int     `json:"day,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// TripImagesRequest carries the parts of an itinerary that need images.
type TripImagesRequest struct {
	Destination string      `json:"destination"`
	Hotels      []TripHotel `json:"hotels"`
	Places      []TripPlace `json:"places"`
}

// TripImagesResponse is the itinerary with image URLs filled in.
type TripImagesResponse struct {
	Destination   string      `json:"destination"`
	CoverImageURL string      `json:"cover_image_url,omitempty"`
	Hotels        []TripHotel `json:"hotels"`
	Places        []TripPlace `json:"places"`
}
