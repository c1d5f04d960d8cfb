package views

import (
	"context"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/repositories"
)

// LikeRelation is "the current user likes this establishment"
func LikeRelation(repo repositories.EstablishmentRepository) optimistic.Relation[*entities.Establishment] {
	return optimistic.Relation[*entities.Establishment]{
		Name:      "like",
		SubjectID: establishmentID,
		Holds:     optimistic.Members((*entities.Establishment).LikerIDs),
		Count:     func(e *entities.Establishment) int { return len(e.LikerIDs()) },
		Add:       repo.Like,
		Remove:    repo.Unlike,
	}
}

// FollowRelation is "the current user follows this establishment"
func FollowRelation(repo repositories.EstablishmentRepository) optimistic.Relation[*entities.Establishment] {
	return optimistic.Relation[*entities.Establishment]{
		Name:      "follow",
		SubjectID: establishmentID,
		Holds:     optimistic.Members((*entities.Establishment).FollowerIDs),
		Count:     func(e *entities.Establishment) int { return len(e.FollowerIDs()) },
		Add:       repo.Follow,
		Remove:    repo.Unfollow,
	}
}

// ReadRelation is "this notification has been read". It is uncounted; the
// view derives the unread total from the toggles themselves.
func ReadRelation(repo repositories.NotificationRepository) optimistic.Relation[*entities.Notification] {
	return optimistic.Relation[*entities.Notification]{
		Name:      "read",
		SubjectID: func(n *entities.Notification) string { return n.ID },
		Holds:     func(n *entities.Notification, _ string) bool { return n.Read },
		Add: func(ctx context.Context, id string) error {
			return repo.MarkRead(ctx, id, true)
		},
		Remove: func(ctx context.Context, id string) error {
			return repo.MarkRead(ctx, id, false)
		},
	}
}

func establishmentID(e *entities.Establishment) string {
	return e.ID
}
