package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jrsteele09/anpr-client/apiclient/fakeapi"
	"github.com/jrsteele09/anpr-client/auth"
	"github.com/jrsteele09/anpr-client/internal/utils"
	"github.com/jrsteele09/anpr-client/parking"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/users"
	"github.com/jrsteele09/anpr-client/vehicles"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	demoUsername = "demo@anpr.local"
	demoPassword = "demo"
)

// demoAPI serves the in-process API on a loopback port for the demo command.
type demoAPI struct {
	api     *fakeapi.Server
	server  *http.Server
	url     string
	account *users.Account
}

func startDemoAPI() (*demoAPI, error) {
	api := fakeapi.New()
	account, err := api.AddAccount(demoUsername, demoPassword,
		users.Person{FirstName: "Demo", LastName: "Driver", Email: demoUsername, Age: 30},
		sessions.RoleByParking{ParkingID: 1, Role: "owner"},
	)
	if err != nil {
		return nil, err
	}
	api.AddParking(parking.ParkingData{ID: 1, Name: "Central", Location: "Main St 1"},
		parking.OccupancyData{Occupied: 12, Total: 40, Percentage: 30, Free: 28})
	api.AddParking(parking.ParkingData{ID: 2, Name: "North", Location: "North Ave 200"},
		parking.OccupancyData{Occupied: 34, Total: 40, Percentage: 85, Free: 6})
	api.AddVehicle(vehicles.VehicleWithStatus{
		ID: 1, Plate: "ABC123", Color: "red", ClientID: account.User.ID, IsInside: true,
		SlotName: utils.Ptr("B-07"), TimeInside: utils.Ptr("01:25"), ParkingID: utils.Ptr(int64(2)),
	}, []byte("%PDF-1.4\n% demo entry ticket\n"))
	api.AddVehicle(vehicles.VehicleWithStatus{ID: 2, Plate: "XYZ789", Color: "white", ClientID: account.User.ID}, nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(err, "[startDemoAPI] net.Listen")
	}
	d := &demoAPI{
		api:     api,
		server:  &http.Server{Handler: api, ReadHeaderTimeout: 5 * time.Second},
		url:     "http://" + listener.Addr().String(),
		account: account,
	}
	go func() {
		if err := d.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("Demo API stopped")
		}
	}()
	log.Info().Str("url", d.url).Msg("Demo API listening")
	return d, nil
}

func (d *demoAPI) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

// runDemo signs in with the demo account, reading the code the way a user reads their phone,
// then runs every other command.
func (a *app) runDemo(ctx context.Context) error {
	fmt.Fprintf(a.out, "Signing in as %s\n", demoUsername)
	readCode := func(auth.Cooldown) (string, error) {
		code, ok := a.demo.api.IssuedCode(a.demo.account.User.ID)
		if !ok {
			return "", errors.New("no code was issued")
		}
		fmt.Fprintf(a.out, "Code: %s\n", code)
		return code, nil
	}
	if err := a.signIn(ctx, auth.Credentials{Username: demoUsername, Password: demoPassword}, readCode); err != nil {
		return err
	}

	steps := []struct {
		title string
		run   func(context.Context) error
	}{
		{"whoami", a.whoami},
		{"vehicles", a.listVehicles},
		{"dashboard", a.dashboard},
	}
	for _, step := range steps {
		fmt.Fprintf(a.out, "\n== %s ==\n", step.title)
		if err := step.run(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out)
	return a.logout()
}
