package parking

import "encoding/json"

type OccupancyLevel string

const (
	LevelSuccess OccupancyLevel = "success"
	LevelWarning OccupancyLevel = "warning"
	LevelDanger  OccupancyLevel = "danger"
)

const (
	warningRatio = 0.5
	dangerRatio  = 0.8
)

// ParkingData describes one parking facility.
type ParkingData struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Location          string          `json:"location"`
	ParkingCategoryID int64           `json:"parkingCategoryId"`
	ParkingCategory   json.RawMessage `json:"parkingCategory,omitempty"`
	Asset             bool            `json:"asset"`
	IsDeleted         bool            `json:"isDeleted"`
}

// OccupancyData is the global occupancy of a parking.
type OccupancyData struct {
	Occupied   int     `json:"occupied"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Free       int     `json:"free"`
}

// Ratio is occupied over total, 0 for a parking without capacity.
func (o OccupancyData) Ratio() float64 {
	if o.Total <= 0 {
		return 0
	}
	return float64(o.Occupied) / float64(o.Total)
}

// Level grades the ratio: below 0.5 is success, below 0.8 warning, anything else danger.
func (o OccupancyData) Level() OccupancyLevel {
	ratio := o.Ratio()
	switch {
	case ratio < warningRatio:
		return LevelSuccess
	case ratio < dangerRatio:
		return LevelWarning
	}
	return LevelDanger
}
