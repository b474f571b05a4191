package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/anpr-client/users"
	"github.com/jrsteele09/anpr-client/vehicles"
)

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (s *Server) VehiclesByClientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := idParam(r)
		if !ok {
			writeValidationProblem(w, "clientId", "The value is not valid.")
			return
		}
		s.lock.Lock()
		list := append([]vehicles.VehicleWithStatus{}, s.vehicles[clientID]...)
		s.lock.Unlock()
		writeData(w, "", list)
	}
}

func (s *Server) TicketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, _ := idParam(r)
		s.lock.Lock()
		pdf, ok := s.tickets[vehicleID]
		s.lock.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, "Ticket not found")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

func (s *Server) GlobalOccupancyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parkingID, err := strconv.ParseInt(r.URL.Query().Get("parkingId"), 10, 64)
		if err != nil {
			writeValidationProblem(w, "parkingId", "The parkingId field is required.")
			return
		}
		s.lock.Lock()
		occupancy, ok := s.occupancy[parkingID]
		s.lock.Unlock()
		if !ok {
			writeRefusal(w, http.StatusOK, "Parking not found")
			return
		}
		writeData(w, "", occupancy)
	}
}

func (s *Server) ParkingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parkingID, _ := idParam(r)
		s.lock.Lock()
		p, ok := s.parkings[parkingID]
		s.lock.Unlock()
		if !ok {
			writeRefusal(w, http.StatusNotFound, "Parking not found")
			return
		}
		writeData(w, "", p)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := idParam(r)
		account, err := s.accounts.GetByID(id)
		if err != nil {
			writeRefusal(w, http.StatusNotFound, "User not found")
			return
		}
		writeData(w, "", account.User)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user users.AuthUser
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			writeJSON(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if user.Username == "" {
			writeValidationProblem(w, "Username", "The Username field is required.")
			return
		}
		updated, err := s.accounts.UpdateUser(user)
		if err != nil {
			writeRefusal(w, http.StatusNotFound, "User not found")
			return
		}
		writeData(w, "User updated", updated)
	}
}

func (s *Server) GetPersonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := idParam(r)
		person, err := s.accounts.GetPerson(id)
		if err != nil {
			writeRefusal(w, http.StatusNotFound, "Person not found")
			return
		}
		writeData(w, "", person)
	}
}

func (s *Server) UpdatePersonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var person users.Person
		if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
			writeJSON(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := s.accounts.UpdatePerson(person)
		if err != nil {
			writeRefusal(w, http.StatusNotFound, "Person not found")
			return
		}
		writeData(w, "Person updated", updated)
	}
}
