package domain

type AirplaneType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Airplane struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Rows           int           `json:"rows"`
	SeatsInRow     int           `json:"seats_in_row"`
	AirplaneTypeID int64         `json:"airplane_type_id"`
	AirplaneType   *AirplaneType `json:"airplane_type,omitempty"`
}

// Capacity is derived and never stored.
func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}
