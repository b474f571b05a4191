package vehicles

import "encoding/json"

// VehicleWithStatus is a client's vehicle together with its current parking status.
// EntryDate and TimeInside are kept as the server formats them. ParkingID is only set
// while the vehicle is inside a parking.
type VehicleWithStatus struct {
	ID            int64           `json:"id"`
	Plate         string          `json:"plate"`
	Color         string          `json:"color"`
	TypeVehicleID int64           `json:"typeVehicleId"`
	TypeVehicle   *string         `json:"typeVehicle"`
	ClientID      int64           `json:"clientId"`
	Client        *string         `json:"client"`
	IsInside      bool            `json:"isInside"`
	EntryDate     *string         `json:"entryDate"`
	SlotName      *string         `json:"slotName"`
	SlotID        *int64          `json:"slotId"`
	TimeInside    *string         `json:"timeInside"`
	ParkingID     *int64          `json:"parkingId"`
	Asset         json.RawMessage `json:"asset,omitempty"`
	IsDeleted     bool            `json:"isDeleted"`
}

// Parked keeps the vehicles currently inside a parking, in order.
func Parked(list []VehicleWithStatus) []VehicleWithStatus {
	parked := make([]VehicleWithStatus, 0, len(list))
	for _, v := range list {
		if v.IsInside {
			parked = append(parked, v)
		}
	}
	return parked
}
