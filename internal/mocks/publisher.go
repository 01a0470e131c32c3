package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"realtime-service/internal/identity"
)

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	args := m.Called(ctx, routingKey, message, headers)
	return args.Error(0)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, token string) (identity.Profile, error) {
	args := m.Called(ctx, token)
	var profile identity.Profile
	if val := args.Get(0); val != nil {
		profile = val.(identity.Profile)
	}
	return profile, args.Error(1)
}

type PusherMock struct {
	mock.Mock
}

func (m *PusherMock) PushToUser(userID int, event string, payload any) error {
	args := m.Called(userID, event, payload)
	return args.Error(0)
}
