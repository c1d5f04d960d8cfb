package repositories

import (
	"context"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

// EstablishmentRepository defines the backend operations on establishments
type EstablishmentRepository interface {
	// List retrieves all establishments
	List(ctx context.Context) ([]entities.Establishment, error)

	// ListApproved retrieves moderation-approved establishments only
	ListApproved(ctx context.Context) ([]entities.Establishment, error)

	// GetByID retrieves one establishment
	GetByID(ctx context.Context, id string) (*entities.Establishment, error)

	// Search runs a text search by name
	Search(ctx context.Context, name string) ([]entities.Establishment, error)

	// Create submits a new listing (always multipart)
	Create(ctx context.Context, form *entities.EstablishmentForm) (*entities.Establishment, error)

	// Update edits a listing (multipart only when files are attached)
	Update(ctx context.Context, id string, form *entities.EstablishmentForm) (*entities.Establishment, error)

	// DeleteImage removes one gallery image
	DeleteImage(ctx context.Context, id, imageID string) error

	Like(ctx context.Context, id string) error
	Unlike(ctx context.Context, id string) error
	Follow(ctx context.Context, id string) error
	Unfollow(ctx context.Context, id string) error

	// SetModerationState changes the publication state (administrators only)
	SetModerationState(ctx context.Context, id string, state entities.ModerationState) error

	// SetVerified changes the verified flag (administrators only)
	SetVerified(ctx context.Context, id string, verified bool) error
}

// CommentRepository defines the backend operations on comments
type CommentRepository interface {
	ListByEstablishment(ctx context.Context, establishmentID string) ([]entities.Comment, error)
	Create(ctx context.Context, input *entities.CommentInput) (*entities.Comment, error)
	Update(ctx context.Context, id string, input *entities.CommentInput) (*entities.Comment, error)
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines the backend operations on the current user's notifications
type NotificationRepository interface {
	List(ctx context.Context) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id string, read bool) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// ChatRepository sends free-text queries to the backend-side assistant
type ChatRepository interface {
	Ask(ctx context.Context, message string) (*entities.ChatReply, error)
}
