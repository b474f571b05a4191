package parking

import (
	"context"
	"fmt"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/pkg/errors"
)

// Service calls the dashboard and parking endpoints of the parking API.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) GlobalOccupancy(ctx context.Context, parkingID int64) (OccupancyData, error) {
	env, err := apiclient.GetEnvelope[OccupancyData](ctx, s.client, fmt.Sprintf("/Dashboard/occupancy/global?parkingId=%d", parkingID))
	if err != nil {
		return OccupancyData{}, errors.Wrap(err, "[parking.GlobalOccupancy]")
	}
	return env.Result()
}

func (s *Service) Info(ctx context.Context, parkingID int64) (ParkingData, error) {
	env, err := apiclient.GetEnvelope[ParkingData](ctx, s.client, fmt.Sprintf("/Parking/%d", parkingID))
	if err != nil {
		return ParkingData{}, errors.Wrap(err, "[parking.Info]")
	}
	return env.Result()
}
