// Package identity resolves an external identity token to the internal
// user record. The identity service speaks gRPC with a JSON content
// subtype, so the client invokes the method directly on the connection
// instead of going through generated stubs.
package identity

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

var (
	ErrUnauthenticated = errors.New("identity token rejected")
	ErrUserUnknown     = errors.New("identity not linked to a user")
)

// Profile is the resolved internal identity of a connecting client.
type Profile struct {
	UserID      int
	DisplayName *string
	Handle      *string
}

// Resolver maps an external identity token to a Profile.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Profile, error)
}

const resolveMethod = "/identity.v1.IdentityService/Resolve"

type resolveRequest struct {
	Token string `json:"token"`
}

type resolveResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
}

// Client is the gRPC-backed Resolver.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient wraps an established connection to the identity service.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Resolve validates the token with the identity service and returns the
// internal user profile.
func (c *Client) Resolve(ctx context.Context, token string) (Profile, error) {
	if token == "" {
		return Profile{}, ErrUnauthenticated
	}

	req := resolveRequest{Token: token}
	var resp resolveResponse
	err := c.conn.Invoke(ctx, resolveMethod, &req, &resp, grpc.CallContentSubtype(codecName))
	if err != nil {
		switch status.Code(err) {
		case codes.Unauthenticated, codes.PermissionDenied:
			return Profile{}, ErrUnauthenticated
		case codes.NotFound:
			return Profile{}, ErrUserUnknown
		}
		return Profile{}, err
	}

	if resp.UserID <= 0 {
		return Profile{}, ErrUserUnknown
	}

	profile := Profile{UserID: int(resp.UserID)}
	if resp.DisplayName != "" {
		name := resp.DisplayName
		profile.DisplayName = &name
	}
	if resp.Handle != "" {
		handle := resp.Handle
		profile.Handle = &handle
	}
	return profile, nil
}

const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
