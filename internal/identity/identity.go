// Package identity models the signed-in principal supplied by the external
// identity provider. The purchasing flow only needs to know who the caller is
// and which bearer token to attach to remote calls.
package identity

import "context"

// Role distinguishes ordinary buyers from the administrative actor that may
// mutate order status and stock.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

// Identity is the signed-in principal for the current session.
type Identity struct {
	Subject string
	Role    Role
	Token   string
}

// Provider supplies the current identity. A nil identity with a nil error
// means the session is signed out.
type Provider interface {
	Current(ctx context.Context) (*Identity, error)
}

// StaticProvider returns a fixed identity; used by the demo CLI and tests.
type StaticProvider struct {
	identity *Identity
}

func NewStaticProvider(id *Identity) *StaticProvider {
	return &StaticProvider{identity: id}
}

func (p *StaticProvider) Current(context.Context) (*Identity, error) {
	return p.identity, nil
}

// SignOut clears the held identity.
func (p *StaticProvider) SignOut() {
	p.identity = nil
}
