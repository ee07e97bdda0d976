package types

import (
	"time"

	"github.com/gufronnakaaw/jujurly-backend/internal/tally"
)

type User struct {
	Id        int       `json:"id"`
	Email     string    `json:"email"`
	Fullname  string    `json:"fullname"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Candidate struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// RoomSummary is the owner-facing listing shape: no candidates, no votes.
type RoomSummary struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Code  string `json:"code"`
}

type RoomDetail struct {
	RoomSummary
	Candidates []Candidate `json:"candidates"`
}

// RoomResult is the voter-facing shape returned for code lookups,
// including the current tally.
type RoomResult struct {
	RoomSummary
	TotalVotes int                     `json:"total_votes"`
	Candidates []tally.CandidateResult `json:"candidates"`
}

type CreateRoomRequest struct {
	Name       string           `json:"name"`
	Start      int64            `json:"start"`
	End        int64            `json:"end"`
	Candidates []CandidateInput `json:"candidates"`
}

type CandidateInput struct {
	Name string `json:"name"`
}

type DeleteRoomRequest struct {
	RoomId int    `json:"room_id"`
	Code   string `json:"code"`
}

type CreateVoteRequest struct {
	RoomId    int        `json:"room_id"`
	Code      string     `json:"code"`
	Candidate VoteChoice `json:"candidate"`
}

type VoteChoice struct {
	Id int `json:"id"`
}

// UpdateRoomRequest is a patch: nil fields are left untouched.
type UpdateRoomRequest struct {
	RoomId     int              `json:"room_id"`
	Name       *string          `json:"name,omitempty"`
	Start      *int64           `json:"start,omitempty"`
	End        *int64           `json:"end,omitempty"`
	Candidates []CandidatePatch `json:"candidates,omitempty"`
}

type CandidatePatch struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}
