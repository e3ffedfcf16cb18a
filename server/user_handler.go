package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"MuseFM/logger"
	"MuseFM/model"
)

type updateRoleRequest struct {
	Role string `json:"role"`
}

// AdminListUsersHandler returns all registered users.
func (h *APIHandler) AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		logger.Error("Failed to list users", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// AdminUpdateUserRoleHandler sets a user's role to "user" or "admin". There
// is no guard against demoting yourself or the last admin; the grant-admin
// CLI command is the recovery path.
func (h *APIHandler) AdminUpdateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !model.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Error("Failed to load user", logger.Int64("userID", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.userRepo.UpdateUserRole(userID, req.Role); err != nil {
		logger.Error("Failed to update role", logger.Int64("userID", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	user.Role = req.Role

	logger.Info("User role updated",
		logger.Int64("userID", userID),
		logger.String("role", req.Role),
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}
