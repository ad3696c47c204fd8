package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"marketplace-api/internal/service"
	"marketplace-api/pkg/apierror"
	"marketplace-api/pkg/response"
)

// UserHandler handles signup, login and user lookup requests.
type UserHandler struct {
	userService     *service.UserService
	activityService *service.ActivityService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService, activityService *service.ActivityService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		activityService: activityService,
	}
}

// SignupRequest represents the request body for user registration.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /api/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if len(req.Username) < 3 || len(req.Username) > 50 {
		response.Error(w, apierror.BadRequest("username must be 3-50 characters"))
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		response.Error(w, apierror.BadRequest("a valid email is required"))
		return
	}
	if len(req.Password) < 6 {
		response.Error(w, apierror.BadRequest("password must be at least 6 characters"))
		return
	}

	user, err := h.userService.Signup(req.Username, req.Email, req.Password, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, user)
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	result, err := h.userService.Login(req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

// Me handles GET /api/me?username=
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}

	user, err := h.userService.Me(username)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, user)
}

// Activity handles GET /api/user/activity?username=
func (h *UserHandler) Activity(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}

	activity, err := h.activityService.ForUser(username, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, activity)
}
