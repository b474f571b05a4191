package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/jrsteele09/anpr-client/auth"
	"github.com/jrsteele09/anpr-client/internal/config"
	"github.com/jrsteele09/anpr-client/internal/schedule"
	"github.com/jrsteele09/anpr-client/internal/utils"
	"github.com/jrsteele09/anpr-client/parking"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/token"
	"github.com/jrsteele09/anpr-client/users"
	"github.com/jrsteele09/anpr-client/vehicles"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type app struct {
	cfg       config.Config
	in        *bufio.Reader
	out       io.Writer
	kv        sessions.KeyValue
	store     sessions.Store
	client    *apiclient.Client
	gateway   auth.Gateway
	scheduler *schedule.CronScheduler
	vehicles  *vehicles.Service
	parking   *parking.Service
	users     *users.Service
	resolver  *parking.Resolver
	demo      *demoAPI
}

func newApp(ctx context.Context, cfg config.Config, reg prometheus.Registerer, in io.Reader, out io.Writer, demo bool) (*app, error) {
	a := &app{cfg: cfg, in: bufio.NewReader(in), out: out, scheduler: schedule.NewCronScheduler()}

	baseURL := cfg.GetBaseURL()
	if demo {
		d, err := startDemoAPI()
		if err != nil {
			return nil, err
		}
		a.demo = d
		baseURL = d.url
		a.kv = sessions.NewMemoryKeyValue()
	} else {
		kv, err := openKeyValue(ctx, cfg.GetDBPath())
		if err != nil {
			return nil, err
		}
		a.kv = kv
	}
	a.store = sessions.NewKVStore(a.kv)

	client, err := apiclient.New(baseURL,
		apiclient.WithTimeout(cfg.GetHTTPTimeout()),
		apiclient.WithTokenSource(token.NewSessionSource(a.store)),
		apiclient.WithMetrics(reg),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = client
	a.gateway = auth.NewAPIGateway(client)
	a.vehicles = vehicles.NewService(client)
	a.parking = parking.NewService(client)
	a.users = users.NewService(client)
	a.resolver = parking.NewResolver(a.store)
	return a, nil
}

func openKeyValue(ctx context.Context, path string) (*sessions.SQLiteKeyValue, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errors.Wrapf(err, "[openKeyValue] creating directory for %s", path)
		}
	}
	return sessions.OpenSQLiteKeyValue(ctx, path)
}

func (a *app) Close() {
	a.scheduler.Shutdown()
	if closer, ok := a.kv.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Err(err).Msg("Closing the session store")
		}
	}
	if a.demo != nil {
		if err := a.demo.shutdown(); err != nil {
			log.Err(err).Msg("Stopping the demo API")
		}
	}
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "vehicles":
		return a.listVehicles(ctx)
	case "dashboard":
		return a.dashboard(ctx)
	case "ticket":
		return a.ticket(ctx, args)
	case "logout":
		return a.logout()
	case "demo":
		return a.runDemo(ctx)
	}
	return errors.Errorf("unknown command %q", command)
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, "[prompt]")
	}
	return strings.TrimSpace(line), nil
}

func (a *app) login(ctx context.Context) error {
	username, err := a.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := a.prompt("Password: ")
	if err != nil {
		return err
	}
	return a.signIn(ctx, auth.Credentials{Username: username, Password: password}, a.promptCode)
}

// signIn runs the credential step and then the code step, reading codes from next.
func (a *app) signIn(ctx context.Context, creds auth.Credentials, next func(auth.Cooldown) (string, error)) error {
	loginFlow, err := auth.NewLoginFlow(a.gateway)
	if err != nil {
		return err
	}
	res, err := loginFlow.Submit(ctx, creds)
	if err != nil {
		fmt.Fprintln(a.out, auth.UserMessage(err))
		return err
	}
	fmt.Fprintln(a.out, res.Message)

	flow, err := auth.NewOtpFlow(res.Pending(creds),
		auth.FlowDeps{Gateway: a.gateway, Store: a.store, Scheduler: a.scheduler},
		auth.WithResendCooldown(a.cfg.GetResendCooldown()),
		auth.WithAutoSubmitDelay(a.cfg.GetAutoSubmitDelay()),
		auth.WithBaseContext(ctx),
	)
	if err != nil {
		return err
	}
	results := make(chan auth.Result, 1)
	flow.OnResult(func(r auth.Result) { results <- r })
	resendReady := make(chan struct{}, 1)
	flow.OnResendAvailable(func() {
		select {
		case resendReady <- struct{}{}:
		default:
		}
	})
	if err := flow.Start(); err != nil {
		return err
	}
	defer flow.Close()

	for {
		// Output only happens on this goroutine; timer callbacks hand notices over.
		select {
		case <-resendReady:
			if !flow.ResendCooldown().ResendDisabled {
				fmt.Fprintln(a.out, "You can request a new code now, type 'resend'.")
			}
		default:
		}

		input, err := next(flow.ResendCooldown())
		if err != nil {
			return errors.Wrap(err, "verification cancelled")
		}

		if strings.EqualFold(input, "resend") {
			if err := flow.Resend(ctx); err != nil {
				if errors.Is(err, auth.ErrResendDisabled) {
					fmt.Fprintf(a.out, "Wait %ds before requesting a new code.\n", flow.ResendCooldown().SecondsRemaining)
					continue
				}
				fmt.Fprintln(a.out, auth.UserMessage(err))
				continue
			}
			fmt.Fprintln(a.out, "A new code is on its way.")
			continue
		}

		if !flow.Paste(input) {
			fmt.Fprintln(a.out, "Please enter the 6 digit code.")
			continue
		}

		var result auth.Result
		select {
		case result = <-results:
		case <-ctx.Done():
			return ctx.Err()
		}
		if result.Err != nil {
			fmt.Fprintln(a.out, auth.UserMessage(result.Err))
			continue
		}
		fmt.Fprintf(a.out, "Signed in as %s.\n", result.Session.Username)
		if _, err := a.resolver.ResolveFromStore(ctx, a.vehicles); err != nil {
			log.Err(err).Msg("Could not resolve the active parking")
		}
		return nil
	}
}

func (a *app) promptCode(cooldown auth.Cooldown) (string, error) {
	label := "Code: "
	if cooldown.ResendDisabled {
		label = fmt.Sprintf("Code (new code available in %ds): ", cooldown.SecondsRemaining)
	}
	return a.prompt(label)
}

func (a *app) whoami(ctx context.Context) error {
	session, err := a.store.Load()
	if err != nil {
		if errors.Is(err, sessions.ErrNoSession) {
			fmt.Fprintln(a.out, "Not signed in.")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "User:     %s (id %d, person %d)\n", session.Username, session.UserID, session.PersonID)
	if exp, ok := token.ExpiresAt(session.Token); ok {
		fmt.Fprintf(a.out, "Expires:  %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	for _, r := range session.RolesByParking {
		fmt.Fprintf(a.out, "Role:     %s at parking %d\n", r.Role, r.ParkingID)
	}
	if active, err := a.store.ActiveParking(); err == nil && active != nil {
		fmt.Fprintf(a.out, "Parking:  %d\n", *active)
	}

	user, err := a.users.GetUser(ctx, session.UserID)
	if err != nil {
		fmt.Fprintln(a.out, auth.UserMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "Name:     %s\nEmail:    %s\n", user.PersonName, user.Email)
	return nil
}

func (a *app) listVehicles(ctx context.Context) error {
	session, err := a.store.Load()
	if err != nil {
		return err
	}
	list, err := a.vehicles.ListWithStatusByClient(ctx, session.UserID)
	if err != nil {
		fmt.Fprintln(a.out, auth.UserMessage(err))
		return err
	}
	if _, err := a.resolver.ResolveActiveParking(session, list); err != nil {
		log.Err(err).Msg("Could not resolve the active parking")
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATE\tSTATUS\tSLOT\tTIME INSIDE")
	for _, v := range list {
		status := "outside"
		if v.IsInside {
			status = "inside"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Plate, status, utils.Value(v.SlotName), utils.Value(v.TimeInside))
	}
	fmt.Fprintf(w, "\n%d vehicles, %d parked\n", len(list), len(vehicles.Parked(list)))
	return w.Flush()
}

func (a *app) dashboard(ctx context.Context) error {
	active, err := a.resolver.ResolveFromStore(ctx, a.vehicles)
	if err != nil {
		return err
	}
	if active == nil {
		fmt.Fprintln(a.out, "No parking is associated with this account.")
		return nil
	}

	info, err := a.parking.Info(ctx, *active)
	if err != nil {
		fmt.Fprintln(a.out, auth.UserMessage(err))
		return err
	}
	occupancy, err := a.parking.GlobalOccupancy(ctx, *active)
	if err != nil {
		fmt.Fprintln(a.out, auth.UserMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", info.Name, info.Location)
	fmt.Fprintf(a.out, "Occupied %d of %d, %d free [%s]\n", occupancy.Occupied, occupancy.Total, occupancy.Free, occupancy.Level())
	return nil
}

func (a *app) ticket(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: anprctl ticket <vehicle id> [file]")
	}
	vehicleID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid vehicle id %q", args[0])
	}
	path := fmt.Sprintf("ticket-%d.pdf", vehicleID)
	if len(args) > 1 {
		path = args[1]
	}

	pdf, err := a.vehicles.EntryTicket(ctx, vehicleID)
	if err != nil {
		fmt.Fprintln(a.out, auth.UserMessage(err))
		return err
	}
	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", path, len(pdf))
	return nil
}

func (a *app) logout() error {
	if err := auth.Logout(a.store); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
