package auth

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-user-admin/internal/api"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

type AuthHandler struct {
	AuthService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		AuthService: authService,
	}
}

// Register godoc
// @Summary      Register admin
// @Description  Creates an admin account and returns an access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        admin body api.RegisterRequest true "Admin details"
// @Success      201 {object} api.AuthResponse "Registered"
// @Failure      400 {object} types.Response "All fields are required"
// @Failure      409 {object} types.Response "Email already exists"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteError(w, r, types.NewError(types.KindInvalidInput, err.Error(), nil))
		return
	}

	admin, token, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, api.AuthResponse{
		Message:     "Registration successful",
		User:        admin,
		AccessToken: token,
	})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies admin credentials and returns an access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body api.LoginRequest true "Credentials"
// @Success      200 {object} api.AuthResponse "Logged in"
// @Failure      401 {object} types.Response "Invalid credentials"
// @Failure      404 {object} types.Response "User not found"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteError(w, r, types.NewError(types.KindInvalidInput, err.Error(), nil))
		return
	}

	admin, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.AuthResponse{
		Message:     "Login successful",
		User:        admin,
		AccessToken: token,
	})
}
