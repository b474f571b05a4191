package auth_test

import (
	"context"
	"sync"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/jrsteele09/anpr-client/auth"
)

type fakeGateway struct {
	mu          sync.Mutex
	loginFn     func(auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error)
	verifyFn    func(auth.VerificationRequest) (apiclient.MaybeEnveloped[auth.AuthData], error)
	logins      []auth.LoginRequest
	verifyCalls []auth.VerificationRequest
}

var _ auth.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) Login(_ context.Context, req auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
	g.mu.Lock()
	g.logins = append(g.logins, req)
	fn := g.loginFn
	g.mu.Unlock()
	if fn == nil {
		return apiclient.Envelope[auth.LoginData]{Success: true, Data: auth.LoginData{UserID: 42}}, nil
	}
	return fn(req)
}

func (g *fakeGateway) VerifyOtp(_ context.Context, req auth.VerificationRequest) (apiclient.MaybeEnveloped[auth.AuthData], error) {
	g.mu.Lock()
	g.verifyCalls = append(g.verifyCalls, req)
	fn := g.verifyFn
	g.mu.Unlock()
	if fn == nil {
		return verified(auth.AuthData{Token: "t", UserID: 42, PersonID: 7}), nil
	}
	return fn(req)
}

func (g *fakeGateway) loginCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.logins)
}

func (g *fakeGateway) verifications() []auth.VerificationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]auth.VerificationRequest(nil), g.verifyCalls...)
}

func verified(data auth.AuthData) apiclient.MaybeEnveloped[auth.AuthData] {
	success := true
	return apiclient.MaybeEnveloped[auth.AuthData]{Wrapped: true, Success: &success, Payload: &data}
}

func rejected(message string) apiclient.MaybeEnveloped[auth.AuthData] {
	success := false
	return apiclient.MaybeEnveloped[auth.AuthData]{Wrapped: true, Success: &success, Message: message}
}
