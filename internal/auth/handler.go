package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dompet/service/internal/middleware"
	"github.com/dompet/service/internal/response"
	"github.com/dompet/service/internal/user"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc          *Service
	secureCookie bool
}

// NewHandler creates a new auth Handler. secureCookie should be true in
// production so the session cookie is only sent over TLS.
func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie}
}

type credentialsRequest struct {
	Username string `json:"username" example:"budi"`
	Password string `json:"password" example:"s3cret"`
}

// Register godoc
//
//	@Summary		Register new user
//	@Description	Create an account and start a session. The session token is set as an HttpOnly cookie.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		credentialsRequest	true	"Credentials"
//	@Success		201		{object}	user.User
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, "username and password required")
		return
	}

	token, u, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, user.ErrAlreadyExists) {
		response.Conflict(w, "username already taken")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusCreated, u)
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Verify credentials and start a session via an HttpOnly cookie.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		credentialsRequest	true	"Credentials"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, "username and password required")
		return
	}

	token, _, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "invalid username or password")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

// Logout godoc
//
//	@Summary	Log out
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me godoc
//
//	@Summary	Get current user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	user.User
//	@Failure	401	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	u, err := h.svc.GetByID(r.Context(), userID)
	if errors.Is(err, user.ErrNotFound) {
		response.NotFound(w, "user not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, u)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
