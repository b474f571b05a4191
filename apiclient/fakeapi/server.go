// Package fakeapi is an in-process stand-in for the parking REST API.
// Tests run it behind httptest and the CLI demo mode serves it locally.
package fakeapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/anpr-client/parking"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/token"
	"github.com/jrsteele09/anpr-client/users"
	fakeuserrepo "github.com/jrsteele09/anpr-client/users/repofake"
	"github.com/jrsteele09/anpr-client/vehicles"
	"github.com/pkg/errors"
)

const tokenIssuer = "anpr-fakeapi"

type Server struct {
	router   chi.Router
	accounts users.AccountRepo
	tokens   *token.Creator

	rawVerify bool
	codeGen   func() string

	lock      sync.Mutex
	codes     map[int64]string
	vehicles  map[int64][]vehicles.VehicleWithStatus
	tickets   map[int64][]byte
	parkings  map[int64]parking.ParkingData
	occupancy map[int64]parking.OccupancyData
	calls     map[string]int
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithRawVerifyResponse answers verify-otp with the bare session payload instead of an envelope.
func WithRawVerifyResponse() Option {
	return func(s *Server) {
		s.rawVerify = true
	}
}

// WithCodeGenerator replaces the random six digit code generator.
func WithCodeGenerator(gen func() string) Option {
	return func(s *Server) {
		s.codeGen = gen
	}
}

func WithTokenCreator(creator *token.Creator) Option {
	return func(s *Server) {
		s.tokens = creator
	}
}

func WithAccountRepo(repo users.AccountRepo) Option {
	return func(s *Server) {
		s.accounts = repo
	}
}

func New(options ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		accounts:  fakeuserrepo.NewFakeAccountRepo(),
		tokens:    token.NewCreator([]byte(uuid.NewString()), tokenIssuer, time.Hour),
		codeGen:   randomCode,
		codes:     make(map[int64]string),
		vehicles:  make(map[int64][]vehicles.VehicleWithStatus),
		tickets:   make(map[int64][]byte),
		parkings:  make(map[int64]parking.ParkingData),
		occupancy: make(map[int64]parking.OccupancyData),
		calls:     make(map[string]int),
	}
	for _, opt := range options {
		opt(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	public := s.APIMiddleware()
	private := s.APIMiddleware(s.RequireAuth())

	s.router.Method(http.MethodPost, RouteAuthLogin, ChainMiddleware(s.LoginHandler(), public...))
	s.router.Method(http.MethodPost, RouteAuthVerifyOtp, ChainMiddleware(s.VerifyOtpHandler(), public...))

	s.router.Method(http.MethodGet, RouteVehiclesByClient, ChainMiddleware(s.VehiclesByClientHandler(), private...))
	s.router.Method(http.MethodGet, RouteTicketPDF, ChainMiddleware(s.TicketHandler(), private...))
	s.router.Method(http.MethodGet, RouteGlobalOccupancy, ChainMiddleware(s.GlobalOccupancyHandler(), private...))
	s.router.Method(http.MethodGet, RouteParking, ChainMiddleware(s.ParkingHandler(), private...))

	s.router.Method(http.MethodGet, RouteUserByID, ChainMiddleware(s.GetUserHandler(), private...))
	s.router.Method(http.MethodPut, RouteUser, ChainMiddleware(s.UpdateUserHandler(), private...))
	s.router.Method(http.MethodGet, RoutePersonID, ChainMiddleware(s.GetPersonHandler(), private...))
	s.router.Method(http.MethodPut, RoutePerson, ChainMiddleware(s.UpdatePersonHandler(), private...))
}

// AddAccount registers a user who can log in with username and password.
func (s *Server) AddAccount(username, password string, person users.Person, roles ...sessions.RoleByParking) (*users.Account, error) {
	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "[fakeapi.AddAccount] HashPassword")
	}
	account := &users.Account{
		User:           users.AuthUser{Username: username, Email: person.Email, Asset: true},
		Person:         person,
		PasswordHash:   hash,
		RolesByParking: roles,
	}
	if err := s.accounts.Upsert(account); err != nil {
		return nil, err
	}
	return account, nil
}

// BlockAccount makes every login of username fail with 403.
func (s *Server) BlockAccount(username string) error {
	return s.accounts.SetBlocked(username, true)
}

// AddVehicle attaches a vehicle to its client; ticket, when given, is served as its entry PDF.
func (s *Server) AddVehicle(v vehicles.VehicleWithStatus, ticket []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.vehicles[v.ClientID] = append(s.vehicles[v.ClientID], v)
	if ticket != nil {
		s.tickets[v.ID] = ticket
	}
}

func (s *Server) AddParking(p parking.ParkingData, occupancy parking.OccupancyData) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.parkings[p.ID] = p
	s.occupancy[p.ID] = occupancy
}

// IssuedCode returns the code most recently sent to userID.
func (s *Server) IssuedCode(userID int64) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	code, ok := s.codes[userID]
	return code, ok
}

// Calls returns how many requests reached path, for example "/Auth/login".
func (s *Server) Calls(path string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.calls[path]
}

func randomCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
