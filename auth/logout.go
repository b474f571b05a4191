package auth

import (
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Logout removes the persisted session, including the active parking cache.
func Logout(store sessions.Store) error {
	if err := store.Clear(); err != nil {
		return errors.Wrap(err, "[auth.Logout] store.Clear")
	}
	log.Info().Msg("Session closed")
	return nil
}
