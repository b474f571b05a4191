package parking_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/jrsteele09/anpr-client/apiclient/fakeapi"
	"github.com/jrsteele09/anpr-client/parking"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/token"
	"github.com/jrsteele09/anpr-client/users"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*parking.Service, *fakeapi.Server) {
	t.Helper()

	creator := token.NewCreator([]byte("test-secret"), "anpr-test", time.Hour)
	api := fakeapi.New(fakeapi.WithTokenCreator(creator))
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	account, err := api.AddAccount("operator", "pw", users.Person{FirstName: "Luis"})
	require.NoError(t, err)
	signed, err := creator.CreateSessionToken(account.User.ID, account.Person.ID)
	require.NoError(t, err)
	store := sessions.NewMemoryStore()
	require.NoError(t, store.Save(sessions.AuthSession{Token: signed, Username: "operator", UserID: account.User.ID}))

	client, err := apiclient.New(srv.URL, apiclient.WithTokenSource(token.NewSessionSource(store)))
	require.NoError(t, err)
	return parking.NewService(client), api
}

func TestService_Dashboard(t *testing.T) {
	service, api := newService(t)
	api.AddParking(
		parking.ParkingData{ID: 7, Name: "Centro", Location: "Calle 10"},
		parking.OccupancyData{Occupied: 30, Total: 40, Percentage: 75, Free: 10},
	)
	ctx := context.Background()

	occupancy, err := service.GlobalOccupancy(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 30, occupancy.Occupied)
	require.Equal(t, parking.LevelWarning, occupancy.Level())

	info, err := service.Info(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "Centro", info.Name)

	_, err = service.GlobalOccupancy(ctx, 8)
	var refused *apiclient.RefusedError
	require.ErrorAs(t, err, &refused)
	require.Equal(t, "Parking not found", refused.Message)

	_, err = service.Info(ctx, 8)
	var transportErr *apiclient.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 404, transportErr.StatusCode)
	require.Equal(t, "Parking not found", transportErr.Message)
}
