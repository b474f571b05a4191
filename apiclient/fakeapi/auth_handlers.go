package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyRequest struct {
	UserID int64  `json:"userId"`
	Code   string `json:"code"`
}

type verifyData struct {
	Token          string                   `json:"token"`
	UserID         int64                    `json:"userId"`
	PersonID       int64                    `json:"personId"`
	RolesByParking []sessions.RoleByParking `json:"rolesByParking"`
}

// LoginHandler checks the credentials and sends a new one-time code.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if strings.TrimSpace(req.Username) == "" {
			writeValidationProblem(w, "Username", "The Username field is required.")
			return
		}
		if req.Password == "" {
			writeValidationProblem(w, "Password", "The Password field is required.")
			return
		}

		account, err := s.accounts.GetByUsername(req.Username)
		if err != nil || !account.CheckPassword(req.Password) {
			writeRefusal(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if account.Blocked {
			writeRefusal(w, http.StatusForbidden, "User is blocked")
			return
		}

		code := s.codeGen()
		s.lock.Lock()
		s.codes[account.User.ID] = code
		s.lock.Unlock()
		log.Debug().Int64("user_id", account.User.ID).Msg("fakeapi issued verification code")

		writeData(w, "Verification code sent", map[string]int64{"userId": account.User.ID})
	}
}

// VerifyOtpHandler exchanges a valid code for a session token. A code can be used once.
func (s *Server) VerifyOtpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		s.lock.Lock()
		expected, ok := s.codes[req.UserID]
		if ok && expected == req.Code {
			delete(s.codes, req.UserID)
		}
		s.lock.Unlock()

		if !ok || expected != req.Code {
			writeRefusal(w, http.StatusOK, "Invalid or expired code")
			return
		}

		account, err := s.accounts.GetByID(req.UserID)
		if err != nil {
			writeRefusal(w, http.StatusOK, "Invalid or expired code")
			return
		}
		signed, err := s.tokens.CreateSessionToken(account.User.ID, account.Person.ID)
		if err != nil {
			log.Err(err).Msg("fakeapi failed to sign session token")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"title": "Internal Server Error"})
			return
		}

		roles := account.RolesByParking
		if roles == nil {
			roles = []sessions.RoleByParking{}
		}
		data := verifyData{Token: signed, UserID: account.User.ID, PersonID: account.Person.ID, RolesByParking: roles}
		if s.rawVerify {
			writeJSON(w, http.StatusOK, data)
			return
		}
		writeData(w, "Verified", data)
	}
}
