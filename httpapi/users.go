package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/florafolio/florafolio"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := s.engine.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Status:   "success",
		Message:  "login successful",
		Username: result.Username,
		Token:    result.Token,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	if _, err := s.engine.Register(r.Context(), req.Username, req.Password, req.Email); err != nil {
		writeEngineError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "user registered")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bearer token required")
		return
	}
	if err := s.engine.Logout(r.Context(), token); err != nil {
		writeEngineError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "logged out")
}

// userView is the profile shape. Email and id are only present on a user's
// own profile; public lookups see the username alone.
type userView struct {
	ID         string `json:"id,omitempty"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	OwnProfile bool   `json:"ownProfile"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.authenticate(func(w http.ResponseWriter, r *http.Request, auth *florafolio.AuthResult) {
		user, err := s.engine.UserByID(r.Context(), auth.UserID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userView{
			ID:         user.ID.String(),
			Username:   user.Username,
			Email:      user.Email,
			OwnProfile: true,
		})
	})(w, r)
}

func (s *Server) handleUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.engine.UserByUsername(r.Context(), username)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	// An optional token upgrades the view to the full profile. A bad token
	// quietly degrades to the public view.
	own := false
	if token, ok := bearerToken(r); ok {
		own = s.engine.OwnerID(token) == user.ID
	}

	view := userView{Username: user.Username, OwnProfile: own}
	if own {
		view.ID = user.ID.String()
		view.Email = user.Email
	}
	writeJSON(w, http.StatusOK, view)
}

type usernameUpdateRequest struct {
	NewUsername string `json:"newUsername"`
}

type tokenResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func (s *Server) handleUsernameUpdate(w http.ResponseWriter, r *http.Request) {
	s.authenticate(func(w http.ResponseWriter, r *http.Request, auth *florafolio.AuthResult) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed user id")
			return
		}
		if id != auth.UserID {
			writeError(w, http.StatusForbidden, "cannot modify another account")
			return
		}

		var req usernameUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewUsername == "" {
			writeError(w, http.StatusBadRequest, "newUsername is required")
			return
		}

		token, _ := bearerToken(r)
		fresh, err := s.engine.ChangeUsername(r.Context(), id, req.NewUsername, token)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			Status:  "success",
			Message: "username updated",
			Token:   fresh,
		})
	})(w, r)
}

type passwordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handlePasswordUpdate(w http.ResponseWriter, r *http.Request) {
	s.authenticate(func(w http.ResponseWriter, r *http.Request, auth *florafolio.AuthResult) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed user id")
			return
		}
		if id != auth.UserID {
			writeError(w, http.StatusForbidden, "cannot modify another account")
			return
		}

		var req passwordUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
			req.CurrentPassword == "" || req.NewPassword == "" {
			writeError(w, http.StatusBadRequest, "currentPassword and newPassword are required")
			return
		}

		token, _ := bearerToken(r)
		fresh, err := s.engine.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, token)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			Status:  "success",
			Message: "password updated",
			Token:   fresh,
		})
	})(w, r)
}
