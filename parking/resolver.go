package parking

import (
	"context"

	"github.com/jrsteele09/anpr-client/internal/utils"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/vehicles"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Resolver derives the active parking context and keeps the store's cache of it current.
type Resolver struct {
	store sessions.Store
}

func NewResolver(store sessions.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveActiveParking returns the parking the client should treat as selected.
// The first role association is the default; the first vehicle inside a parking
// overrides it when that vehicle carries a parking id. The result is cached in the
// store only when it differs from what is already cached. Nil means no parking,
// and any cached value is removed.
func (r *Resolver) ResolveActiveParking(session sessions.AuthSession, list []vehicles.VehicleWithStatus) (*int64, error) {
	resolved := activeParking(session, list)

	cached, err := r.store.ActiveParking()
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.ResolveActiveParking] store.ActiveParking")
	}
	if utils.Equal(cached, resolved) {
		return resolved, nil
	}
	if resolved == nil {
		if err := r.store.ClearActiveParking(); err != nil {
			return nil, errors.Wrap(err, "[Resolver.ResolveActiveParking] store.ClearActiveParking")
		}
		log.Debug().Msg("Active parking cleared")
		return nil, nil
	}
	if err := r.store.SetActiveParking(*resolved); err != nil {
		return nil, errors.Wrap(err, "[Resolver.ResolveActiveParking] store.SetActiveParking")
	}
	log.Debug().Int64("parking_id", *resolved).Msg("Active parking changed")
	return resolved, nil
}

// ResolveFromStore loads the session, fetches the user's vehicles and resolves.
// A failed vehicle fetch falls back to the role default.
func (r *Resolver) ResolveFromStore(ctx context.Context, source vehicles.Lister) (*int64, error) {
	session, err := r.store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.ResolveFromStore] store.Load")
	}

	var list []vehicles.VehicleWithStatus
	if source != nil {
		list, err = source.ListWithStatusByClient(ctx, session.UserID)
		if err != nil {
			log.Err(err).Int64("user_id", session.UserID).Msg("Could not load vehicles, using the role default")
			list = nil
		}
	}
	return r.ResolveActiveParking(session, list)
}

func activeParking(session sessions.AuthSession, list []vehicles.VehicleWithStatus) *int64 {
	for _, v := range list {
		if !v.IsInside {
			continue
		}
		if v.ParkingID != nil {
			return utils.Ptr(*v.ParkingID)
		}
		break
	}
	if id, ok := session.DefaultParkingID(); ok {
		return utils.Ptr(id)
	}
	return nil
}
