package flow

import (
	"context"

	"github.com/HavvokLab/solix-setup/api/solix"
	"github.com/HavvokLab/solix-setup/model"
)

// Session is an authenticated account connection.
type Session interface {
	UpdateSites(ctx context.Context) error
	Data() model.ApiData
	Nickname() string
}

type Authenticator interface {
	Authenticate(ctx context.Context, credentials model.Credentials) (Session, error)
}

type DeviceReconciler interface {
	CheckAndRemoveDevices(ctx context.Context, username string, apiData model.ApiData, excluded []string) (*model.ConfigEntry, error)
}

type clientAuthenticator struct {
	opts []solix.Option
}

// NewClientAuthenticator logs in with a fresh cloud client per attempt.
func NewClientAuthenticator(opts ...solix.Option) Authenticator {
	return &clientAuthenticator{opts: opts}
}

func (a *clientAuthenticator) Authenticate(ctx context.Context, credentials model.Credentials) (Session, error) {
	client := solix.NewClient(credentials, a.opts...)
	if err := client.Authenticate(ctx, true); err != nil {
		return nil, err
	}

	return client, nil
}
