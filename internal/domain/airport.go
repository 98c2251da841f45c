package domain

type Airport struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

type Route struct {
	ID            int64    `json:"id"`
	Distance      int      `json:"distance"`
	SourceID      int64    `json:"source_id"`
	DestinationID int64    `json:"destination_id"`
	Source        *Airport `json:"source,omitempty"`
	Destination   *Airport `json:"destination,omitempty"`
}

// AirportNames renders the route as "source -> destination" airport names.
func (r Route) AirportNames() string {
	var src, dst string
	if r.Source != nil {
		src = r.Source.Name
	}
	if r.Destination != nil {
		dst = r.Destination.Name
	}
	return src + " -> " + dst
}
