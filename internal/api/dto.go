// Package api holds the request and response DTOs of the HTTP surface.
package api

import (
	"time"

	"github.com/ideahub-dev/ideahub/internal/domain"
	"github.com/ideahub-dev/ideahub/internal/service"
)

// Requests

type CreateClosureRequest struct {
	StartDate          time.Time `json:"start_date" validate:"required"`
	InitialClosureDate time.Time `json:"initial_closure_date" validate:"required"`
	FinalClosureDate   time.Time `json:"final_closure_date" validate:"required"`
}

type UpdateClosureRequest struct {
	StartDate          *time.Time `json:"start_date"`
	InitialClosureDate *time.Time `json:"initial_closure_date"`
	FinalClosureDate   *time.Time `json:"final_closure_date"`
}

// CreatePostRequest is the json part of the multipart create form; files ride
// in the "images" and "documents" fields.
type CreatePostRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	CategoryId   int64  `json:"category_id" validate:"required"`
	AuthorHidden bool   `json:"author_hidden"`
}

type UpdatePostRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CategoryId   *int64  `json:"category_id"`
	AuthorHidden *bool   `json:"author_hidden"`
}

type CreateCommentRequest struct {
	Text         string `json:"text" validate:"required"`
	AuthorHidden bool   `json:"author_hidden"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type ReactionRequest struct {
	Reaction string `json:"reaction" validate:"required,oneof=like dislike"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type BulkDeleteRequest struct {
	Ids []int64 `json:"ids" validate:"required,min=1"`
}

type RegisterRequest struct {
	Name        string    `json:"name" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=8"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	Department  string    `json:"department" validate:"required"`
	Role        string    `json:"role" validate:"required"`
}

type BulkRegisterRequest struct {
	Users []RegisterRequest `json:"users" validate:"required,min=1,dive"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name        *string    `json:"name"`
	Email       *string    `json:"email"`
	Password    *string    `json:"password"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Department  *string    `json:"department"`
	Role        *string    `json:"role"`
}

// Responses

type MessageResponse struct {
	Message string `json:"message"`
}

type ClosureResponse struct {
	Closure *domain.Closure `json:"closure"`
}

type GateResponse struct {
	Open   bool   `json:"open"`
	Reason string `json:"reason,omitempty"`
}

type PostResponse struct {
	Post     *domain.PostView     `json:"post"`
	Comments []domain.CommentView `json:"comments,omitempty"`
}

type CommentResponse struct {
	Comment *domain.CommentView `json:"comment"`
}

type CategoryListResponse struct {
	Categories []domain.Category `json:"categories"`
}

type UserResponse struct {
	User *domain.User `json:"user"`
}

type UserListResponse struct {
	Users []domain.User `json:"users"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type BulkDeleteResponse struct {
	Results []service.BulkDeleteResult `json:"results"`
}

type BulkRegisterResponse struct {
	Results []service.BulkRegisterResult `json:"results"`
}
