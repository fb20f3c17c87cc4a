package domain

import "github.com/lib/pq"

type (
	UserId     = int64
	PostId     = int64
	CommentId  = int64
	CategoryId = int64
	ClosureId  = int64

	Email      = string
	Department = string

	// UserSet holds user ids as stored in postgres (liked_by / disliked_by).
	UserSet = pq.Int64Array

	// BlobKeys holds blob-store object keys for post attachments.
	BlobKeys = pq.StringArray
)

// Roles checked by the route layer before calling into services.
const (
	RoleStaff         = "staff"
	RoleQACoordinator = "qaCoordinator"
	RoleQAManager     = "qaManager"
	RoleAdmin         = "admin"
)

func ValidRole(r string) bool {
	switch r {
	case RoleStaff, RoleQACoordinator, RoleQAManager, RoleAdmin:
		return true
	}
	return false
}
