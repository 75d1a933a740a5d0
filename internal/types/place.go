package types

// Place is a Nominatim search result, trimmed to the fields the trip form uses.
type Place struct {
	PlaceID     int64         `json:"place_id"`
	DisplayName string        `json:"display_name"`
	Name        string        `json:"name,omitempty"`
	Lat         string        `json:"lat"`
	Lon         string        `json:"lon"`
	Type        string        `json:"type,omitempty"`
	Class       string        `json:"class,omitempty"`
	Importance  float64       `json:"importance,omitempty"`
	BoundingBox []string      `json:"boundingbox,omitempty"`
	Address     *PlaceAddress `json:"address,omitempty"`
}

// PlaceAddress is the addressdetails block of a Nominatim result.
type PlaceAddress struct {
	City        string `json:"city,omitempty"`
	Town        string `json:"town,omitempty"`
	Village     string `json:"village,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}
