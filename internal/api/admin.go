package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gufronnakaaw/jujurly-backend/internal/database"
	"github.com/gufronnakaaw/jujurly-backend/internal/types"
	"github.com/teris-io/shortid"
)

const apiTokenExpiration = time.Hour

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	ApiToken string `json:"api_token"`
}

type DashboardResponse struct {
	TotalUsers      int `json:"total_users"`
	TotalRooms      int `json:"total_rooms"`
	TotalCandidates int `json:"total_candidates"`
}

type AdminUserResponse struct {
	Id        int       `json:"id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminRoomResponse struct {
	types.RoomSummary
	Owner      string            `json:"owner"`
	Candidates []types.Candidate `json:"candidates"`
	CreatedAt  time.Time         `json:"created_at"`
}

type LogResponse struct {
	LogId     string    `json:"log_id"`
	Name      string    `json:"name"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"created_at"`
}

// adminLogin verifies admin credentials and issues an opaque API token
// stored server-side, plus an audit log entry recording the device.
func (s *App) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		s.writeError(w, NewBadRequestError("username and password are required"))
		return
	}

	admin, err := s.db.GetAdminByUsername(req.Username)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, NewBadRequestError("username or password wrong"))
		return
	}
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	if !verifyPassword(admin.PasswordHash, req.Password) {
		s.writeError(w, NewBadRequestError("username or password wrong"))
		return
	}

	apiToken := strings.ReplaceAll(uuid.NewString(), "-", "")

	logId, err := shortid.Generate()
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	device := r.UserAgent()
	if device == "" {
		device = "unknown"
	}

	err = s.db.CreateAdminSession(
		database.Token{
			Value:   apiToken,
			Expired: time.Now().Add(apiTokenExpiration).UnixMilli(),
		},
		database.Log{
			LogId:  logId,
			Name:   admin.Fullname,
			Device: device,
		},
	)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	s.writeData(w, http.StatusOK, AdminLoginResponse{
		Email:    admin.Email,
		Fullname: admin.Fullname,
		ApiToken: apiToken,
	})
}

func (s *App) adminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.db.GetDashboard()
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	s.writeData(w, http.StatusOK, DashboardResponse{
		TotalUsers:      dashboard.TotalUsers,
		TotalRooms:      dashboard.TotalRooms,
		TotalCandidates: dashboard.TotalCandidates,
	})
}

func (s *App) adminUsers(w http.ResponseWriter, r *http.Request) {
	dbUsers, err := s.db.ListUsers()
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	users := make([]AdminUserResponse, 0, len(dbUsers))
	for _, u := range dbUsers {
		users = append(users, AdminUserResponse{
			Id:        u.Id,
			Fullname:  u.Fullname,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		})
	}

	s.writeData(w, http.StatusOK, users)
}

func (s *App) adminRooms(w http.ResponseWriter, r *http.Request) {
	dbRooms, err := s.db.ListAllRooms()
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	roomList := make([]AdminRoomResponse, 0, len(dbRooms))
	for _, room := range dbRooms {
		candidates := make([]types.Candidate, 0, len(room.Candidates))
		for _, c := range room.Candidates {
			candidates = append(candidates, types.Candidate{Id: c.Id, Name: c.Name})
		}

		roomList = append(roomList, AdminRoomResponse{
			RoomSummary: types.RoomSummary{
				Id:    room.Id,
				Name:  room.Name,
				Start: room.Start,
				End:   room.End,
				Code:  room.Code,
			},
			Owner:      room.Owner,
			Candidates: candidates,
			CreatedAt:  room.CreatedAt,
		})
	}

	s.writeData(w, http.StatusOK, roomList)
}

func (s *App) adminLogs(w http.ResponseWriter, r *http.Request) {
	dbLogs, err := s.db.ListLogs()
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	logs := make([]LogResponse, 0, len(dbLogs))
	for _, l := range dbLogs {
		logs = append(logs, LogResponse{
			LogId:     l.LogId,
			Name:      l.Name,
			Device:    l.Device,
			CreatedAt: l.CreatedAt,
		})
	}

	s.writeData(w, http.StatusOK, logs)
}

func adminTargetId(r *http.Request) (int, *ApiError) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		return 0, NewValidationError([]FieldError{
			{Field: "id", Message: "id must be a positive number"},
		})
	}

	return id, nil
}

func (s *App) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userId, errResp := adminTargetId(r)
	if errResp != nil {
		s.writeError(w, errResp)
		return
	}

	err := s.db.DeleteUser(userId)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, NewNotFoundError("user not found"))
		return
	}
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	s.writeData(w, http.StatusOK, MessageResponse{Message: "Delete user successfully"})
}

func (s *App) adminDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomId, errResp := adminTargetId(r)
	if errResp != nil {
		s.writeError(w, errResp)
		return
	}

	err := s.db.AdminDeleteRoom(roomId)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, NewNotFoundError("room not found"))
		return
	}
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	s.writeData(w, http.StatusOK, MessageResponse{Message: "Delete room successfully"})
}
