// Package mocks holds testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

// EstablishmentRepository is a mock of repositories.EstablishmentRepository
type EstablishmentRepository struct {
	mock.Mock
}

func (m *EstablishmentRepository) List(ctx context.Context) ([]entities.Establishment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Establishment), args.Error(1)
}

func (m *EstablishmentRepository) ListApproved(ctx context.Context) ([]entities.Establishment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Establishment), args.Error(1)
}

func (m *EstablishmentRepository) GetByID(ctx context.Context, id string) (*entities.Establishment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Establishment), args.Error(1)
}

func (m *EstablishmentRepository) Search(ctx context.Context, name string) ([]entities.Establishment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Establishment), args.Error(1)
}

func (m *EstablishmentRepository) Create(ctx context.Context, form *entities.EstablishmentForm) (*entities.Establishment, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Establishment), args.Error(1)
}

func (m *EstablishmentRepository) Update(ctx context.Context, id string, form *entities.EstablishmentForm) (*entities.Establishment, error) {
	args := m.Called(ctx, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Establishment), args.Error(1)
}

func (m *EstablishmentRepository) DeleteImage(ctx context.Context, id, imageID string) error {
	return m.Called(ctx, id, imageID).Error(0)
}

func (m *EstablishmentRepository) Like(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EstablishmentRepository) Unlike(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EstablishmentRepository) Follow(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EstablishmentRepository) Unfollow(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EstablishmentRepository) SetModerationState(ctx context.Context, id string, state entities.ModerationState) error {
	return m.Called(ctx, id, state).Error(0)
}

func (m *EstablishmentRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return m.Called(ctx, id, verified).Error(0)
}

// CommentRepository is a mock of repositories.CommentRepository
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) ListByEstablishment(ctx context.Context, establishmentID string) ([]entities.Comment, error) {
	args := m.Called(ctx, establishmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Comment), args.Error(1)
}

func (m *CommentRepository) Create(ctx context.Context, input *entities.CommentInput) (*entities.Comment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *CommentRepository) Update(ctx context.Context, id string, input *entities.CommentInput) (*entities.Comment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *CommentRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// NotificationRepository is a mock of repositories.NotificationRepository
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) List(ctx context.Context) ([]entities.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Notification), args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id string, read bool) error {
	return m.Called(ctx, id, read).Error(0)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *NotificationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// ChatRepository is a mock of repositories.ChatRepository
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) Ask(ctx context.Context, message string) (*entities.ChatReply, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChatReply), args.Error(1)
}
