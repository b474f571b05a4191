package users

import (
	"context"
	"fmt"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service calls the user and person endpoints of the parking API.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) GetUser(ctx context.Context, id int64) (AuthUser, error) {
	env, err := apiclient.GetEnvelope[AuthUser](ctx, s.client, fmt.Sprintf("/User/%d", id))
	if err != nil {
		return AuthUser{}, errors.Wrap(err, "[users.GetUser]")
	}
	return env.Result()
}

func (s *Service) GetPerson(ctx context.Context, id int64) (Person, error) {
	env, err := apiclient.GetEnvelope[Person](ctx, s.client, fmt.Sprintf("/Person/%d", id))
	if err != nil {
		return Person{}, errors.Wrap(err, "[users.GetPerson]")
	}
	return env.Result()
}

func (s *Service) UpdateUser(ctx context.Context, user AuthUser) (AuthUser, error) {
	env, err := apiclient.PutEnvelope[AuthUser](ctx, s.client, "/User", user)
	if err != nil {
		return AuthUser{}, errors.Wrap(err, "[users.UpdateUser]")
	}
	updated, err := env.Result()
	if err != nil {
		return AuthUser{}, err
	}
	log.Info().Int64("user_id", updated.ID).Msg("User updated")
	return updated, nil
}

func (s *Service) UpdatePerson(ctx context.Context, person Person) (Person, error) {
	env, err := apiclient.PutEnvelope[Person](ctx, s.client, "/Person", person)
	if err != nil {
		return Person{}, errors.Wrap(err, "[users.UpdatePerson]")
	}
	updated, err := env.Result()
	if err != nil {
		return Person{}, err
	}
	log.Info().Int64("person_id", updated.ID).Msg("Person updated")
	return updated, nil
}
