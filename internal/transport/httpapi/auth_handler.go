package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"maison-be/internal/cart"
	"maison-be/internal/user"
	"maison-be/internal/utils"
)

type AuthHandler struct {
	userSvc user.Service
	merges  *cart.MergeRegistry
}

func NewAuthHandler(userSvc user.Service, merges *cart.MergeRegistry) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, merges: merges}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

func newAuthResponse(token string, u user.User) authResponse {
	var resp authResponse
	resp.Token = token
	resp.User.ID = uint(u.ID)
	resp.User.Email = u.Email
	resp.User.Name = u.Name
	resp.User.Role = string(u.Role)
	return resp
}

func setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, u, err := h.userSvc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			utils.WriteJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	setAccessCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, newAuthResponse(token, u))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, u, err := h.userSvc.Login(req.Email, req.Password)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	setAccessCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, newAuthResponse(token, u))
}

// Logout clears the access cookie and ends the merge session so the next
// login is allowed to reconcile an offline cart again.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		h.merges.EndSession(userID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
