package auth

import (
	"context"

	"github.com/jrsteele09/anpr-client/apiclient"
)

const (
	LoginPath     = "/Auth/login"
	VerifyOtpPath = "/Auth/verify-otp"
)

// Gateway is the part of the parking API the authentication flows need.
type Gateway interface {
	Login(ctx context.Context, req LoginRequest) (apiclient.Envelope[LoginData], error)
	VerifyOtp(ctx context.Context, req VerificationRequest) (apiclient.MaybeEnveloped[AuthData], error)
}

// APIGateway implements Gateway over the REST client.
type APIGateway struct {
	client *apiclient.Client
}

var _ Gateway = (*APIGateway)(nil)

func NewAPIGateway(client *apiclient.Client) *APIGateway {
	return &APIGateway{client: client}
}

func (g *APIGateway) Login(ctx context.Context, req LoginRequest) (apiclient.Envelope[LoginData], error) {
	return apiclient.PostEnvelope[LoginData](ctx, g.client, LoginPath, req)
}

func (g *APIGateway) VerifyOtp(ctx context.Context, req VerificationRequest) (apiclient.MaybeEnveloped[AuthData], error) {
	return apiclient.PostMaybeEnveloped[AuthData](ctx, g.client, VerifyOtpPath, req)
}
