// Package validation schema-checks inbound room and vote payloads
// before any business logic runs. It performs no I/O: every function
// either returns nil or an *Error listing the violated fields.
package validation

import (
	"strings"

	"github.com/gufronnakaaw/jujurly-backend/internal/types"
)

const codeLength = 8

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field != "" {
			msgs = append(msgs, f.Field+": "+f.Message)
		} else {
			msgs = append(msgs, f.Message)
		}
	}

	return strings.Join(msgs, "; ")
}

type collector struct {
	fields []FieldError
}

func (c *collector) add(field, message string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

func CreateRoom(req types.CreateRoomRequest) error {
	var c collector
	if req.Name == "" {
		c.add("name", "name is required")
	}
	if req.Start <= 0 {
		c.add("start", "start must be a positive number")
	}
	if req.End <= 0 {
		c.add("end", "end must be a positive number")
	}
	if len(req.Candidates) < 2 {
		c.add("candidates", "at least 2 candidates are required")
	}
	for _, cand := range req.Candidates {
		if cand.Name == "" {
			c.add("candidates.name", "candidate name is required")
		}
	}

	return c.err()
}

func DeleteRoom(req types.DeleteRoomRequest) error {
	var c collector
	if req.RoomId <= 0 {
		c.add("room_id", "room_id must be a positive number")
	}
	if len(req.Code) < codeLength {
		c.add("code", "code must be at least 8 characters")
	}

	return c.err()
}

// GetRooms checks the optional query parameters of the room read
// endpoint. Both id and code absent is valid: the caller falls through
// to listing their own rooms.
func GetRooms(id int, idSet bool, code string) error {
	var c collector
	if idSet && id <= 0 {
		c.add("id", "id must be a positive number")
	}
	if len(code) > codeLength {
		c.add("code", "code must be at most 8 characters")
	}

	return c.err()
}

func CreateVote(req types.CreateVoteRequest) error {
	var c collector
	if req.RoomId <= 0 {
		c.add("room_id", "room_id must be a positive number")
	}
	if len(req.Code) < codeLength {
		c.add("code", "code must be at least 8 characters")
	}
	if req.Candidate.Id <= 0 {
		c.add("candidate.id", "candidate id must be a positive number")
	}

	return c.err()
}

func UpdateRoom(req types.UpdateRoomRequest) error {
	var c collector
	if req.RoomId <= 0 {
		c.add("room_id", "room_id must be a positive number")
	}
	if req.Name != nil && *req.Name == "" {
		c.add("name", "name cannot be empty")
	}
	if req.Start != nil && *req.Start <= 0 {
		c.add("start", "start must be a positive number")
	}
	if req.End != nil && *req.End <= 0 {
		c.add("end", "end must be a positive number")
	}
	if req.Candidates != nil {
		if len(req.Candidates) < 2 {
			c.add("candidates", "at least 2 candidates are required")
		}
		for _, cand := range req.Candidates {
			if cand.Id <= 0 {
				c.add("candidates.id", "candidate id must be a positive number")
			}
			if cand.Name == "" {
				c.add("candidates.name", "candidate name is required")
			}
		}
	}

	return c.err()
}
