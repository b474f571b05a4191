package vehicles

import (
	"context"
	"fmt"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Lister is what the active parking resolution needs from the vehicle API.
type Lister interface {
	ListWithStatusByClient(ctx context.Context, clientID int64) ([]VehicleWithStatus, error)
}

// Service calls the vehicle endpoints of the parking API.
type Service struct {
	client *apiclient.Client
}

var _ Lister = (*Service)(nil)

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// ListWithStatusByClient returns every vehicle of a client with its parking status.
func (s *Service) ListWithStatusByClient(ctx context.Context, clientID int64) ([]VehicleWithStatus, error) {
	env, err := apiclient.GetEnvelope[[]VehicleWithStatus](ctx, s.client, fmt.Sprintf("/Vehicle/by-client/status/%d", clientID))
	if err != nil {
		return nil, errors.Wrap(err, "[vehicles.ListWithStatusByClient]")
	}
	list, err := env.Result()
	if err != nil {
		log.Info().Int64("client_id", clientID).Str("message", env.Message).Msg("Vehicle list refused")
		return nil, err
	}
	if list == nil {
		list = []VehicleWithStatus{}
	}
	return list, nil
}

// EntryTicket downloads the entry ticket PDF of a vehicle.
func (s *Service) EntryTicket(ctx context.Context, vehicleID int64) ([]byte, error) {
	pdf, err := s.client.Get(ctx, fmt.Sprintf("/tickets/%d/pdf", vehicleID))
	if err != nil {
		return nil, errors.Wrap(err, "[vehicles.EntryTicket]")
	}
	if len(pdf) == 0 {
		return nil, errors.Wrapf(apiclient.ErrInvalidResponse, "[vehicles.EntryTicket] empty ticket for vehicle %d", vehicleID)
	}
	return pdf, nil
}
