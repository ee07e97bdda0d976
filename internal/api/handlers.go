package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gufronnakaaw/jujurly-backend/internal/rooms"
	"github.com/gufronnakaaw/jujurly-backend/internal/stats"
	"github.com/gufronnakaaw/jujurly-backend/internal/types"
	"github.com/gufronnakaaw/jujurly-backend/internal/validation"
)

// envelope is the wire shape of every response: either data or errors
// is set, never both.
type envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (s *App) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *App) writeData(w http.ResponseWriter, statusCode int, data any) {
	s.writeJson(w, statusCode, envelope{Success: true, Data: data})
}

func (s *App) writeError(w http.ResponseWriter, errResp *ApiError) {
	if errResp.Err != nil {
		s.log.Printf("request failed: %v", errResp)
	}

	s.writeJson(w, errResp.StatusCode, envelope{Success: false, Errors: errResp.Errors})
}

// serviceError translates room lifecycle failures into API errors.
func serviceError(err error) *ApiError {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		fields := make([]FieldError, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			fields = append(fields, FieldError{Field: f.Field, Message: f.Message})
		}
		return NewValidationError(fields)
	case errors.Is(err, rooms.ErrRoomNotFound):
		return NewNotFoundError("Room not found")
	case errors.Is(err, rooms.ErrCandidateNotFound):
		return NewNotFoundError("Candidate not found")
	case errors.Is(err, rooms.ErrAlreadyVoted):
		return NewConflictError("You have already participated")
	case errors.Is(err, rooms.ErrVotingNotStarted):
		return NewNotYetOpenError()
	default:
		return NewInternalServerError(err)
	}
}

func (s *App) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *App) createRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	var req types.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	room, err := s.rooms.Create(userId, req)
	if err != nil {
		s.writeError(w, serviceError(err))
		return
	}

	s.stats.Incr(stats.RoomsCreated)
	s.writeData(w, http.StatusCreated, room)
}

func (s *App) deleteRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	var req types.DeleteRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	if err := s.rooms.Delete(userId, req); err != nil {
		s.writeError(w, serviceError(err))
		return
	}

	s.writeData(w, http.StatusOK, MessageResponse{Message: "Delete room successfully"})
}

// getRooms serves three read shapes from one route: ?id= for the
// owner's room detail, ?code= for the voter-facing tally, neither for
// the owner's room list.
func (s *App) getRooms(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	idStr := r.URL.Query().Get("id")
	code := r.URL.Query().Get("code")

	if idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			s.writeError(w, NewValidationError([]FieldError{
				{Field: "id", Message: "id must be a positive number"},
			}))
			return
		}

		room, err := s.rooms.GetById(userId, id)
		if err != nil {
			s.writeError(w, serviceError(err))
			return
		}

		s.writeData(w, http.StatusOK, room)
		return
	}

	if code != "" {
		result, err := s.rooms.GetByCode(code)
		if err != nil {
			s.writeError(w, serviceError(err))
			return
		}

		s.writeData(w, http.StatusOK, result)
		return
	}

	roomList, err := s.rooms.List(userId)
	if err != nil {
		s.writeError(w, serviceError(err))
		return
	}

	s.writeData(w, http.StatusOK, roomList)
}

func (s *App) createVote(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	var req types.CreateVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	if err := s.rooms.Vote(userId, req); err != nil {
		s.writeError(w, serviceError(err))
		return
	}

	s.stats.Incr(stats.VotesCast)
	s.broadcastResult(req.Code)

	s.writeData(w, http.StatusCreated, MessageResponse{Message: "Vote candidate successfully"})
}

// broadcastResult pushes the room's fresh tally to live subscribers.
// Failures are logged, not surfaced: the vote has already been
// accepted.
func (s *App) broadcastResult(code string) {
	result, err := s.rooms.ResultByCode(code)
	if err != nil {
		s.log.Printf("compute live result for room %q: %v", code, err)
		return
	}

	s.live.Broadcast(code, result)
}

func (s *App) updateRoom(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	var req types.UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	room, err := s.rooms.Update(userId, req)
	if err != nil {
		s.writeError(w, serviceError(err))
		return
	}

	s.writeData(w, http.StatusOK, room)
}
