// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"passport/internal/delivery/http/response"
	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// --- request/response shapes ---

type registerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type reauthUpdateRequest struct {
	CurrentPassword string  `json:"password" validate:"required"`
	NewPassword     *string `json:"newPassword" validate:"omitempty,min=6"`
	FullName        *string `json:"fullName"`
	Email           *string `json:"email" validate:"omitempty,email"`
}

// userView is the wire shape for an account. The password hash has no field
// here at all.
type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type loginView struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func toUserView(user *entity.User) userView {
	return userView{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.String(),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toUserViews(users []*entity.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}

	return views
}

// --- handlers ---

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserView(output.User), "User registered successfully")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginView{
		User:  toUserView(output.User),
		Token: output.Token,
	}, "Login successful")
}

// List handles the paginated listing request.
func (h *AccountHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "limit must be an integer")
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "offset must be an integer")
	}

	users, err := h.uc.List(c.Request().Context(), &usecase.PageInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserViews(users), "")
}

// Lookup handles the free-text lookup request: an id, an email or a role.
func (h *AccountHandler) Lookup(c echo.Context) error {
	term := c.Param("term")
	if term == "" {
		return response.BadRequest(c, "INVALID_INPUT", "lookup term is required")
	}

	users, err := h.uc.Lookup(c.Request().Context(), term)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserViews(users), "")
}

// Update handles the administrative partial update.
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "id must be a UUID")
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.Update(c.Request().Context(), id, &usecase.UpdateInput{
		Patch:    buildPatch(req.Email, req.FullName, req.Role),
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "User updated successfully")
}

// UpdateSelf handles the self-service partial update gated on the current password.
func (h *AccountHandler) UpdateSelf(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "id must be a UUID")
	}

	var req reauthUpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateWithReauth(c.Request().Context(), id, &usecase.ReauthUpdateInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Patch:           buildPatch(req.Email, req.FullName, nil),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "User updated successfully")
}

// Deactivate handles the soft-delete request.
func (h *AccountHandler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "id must be a UUID")
	}

	if err := h.uc.Deactivate(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func buildPatch(email, fullName, role *string) repository.UserPatch {
	patch := repository.UserPatch{
		Email:    email,
		FullName: fullName,
	}
	if role != nil {
		r := entity.Role(*role)
		patch.Role = &r
	}

	return patch
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}
