package types

// Location is a validated WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DetailAddress is the service address attached to installation and cleaning orders.
type DetailAddress struct {
	City        string    `json:"city"`
	District    string    `json:"district"`
	SubDistrict string    `json:"sub_district"`
	ZipCode     string    `json:"zip_code,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Location    *Location `json:"location,omitempty"`
}
