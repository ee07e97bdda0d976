package database

import "time"

type User struct {
	Id           int
	Email        string
	Fullname     string
	PasswordHash string
	CreatedAt    time.Time
}

type Admin struct {
	Id           int
	Username     string
	Email        string
	Fullname     string
	PasswordHash string
}

type Token struct {
	Id      int
	Value   string
	Expired int64
}

type Log struct {
	Id        int
	LogId     string
	Name      string
	Device    string
	CreatedAt time.Time
}

// Room timestamps (Start, End) are unix milliseconds, matching the
// wire format.
type Room struct {
	Id         int
	Name       string
	Start      int64
	End        int64
	Code       string
	OwnerId    int
	CreatedAt  time.Time
	Candidates []Candidate
}

type Candidate struct {
	Id     int
	Name   string
	RoomId int
}

type Vote struct {
	Id          int
	UserId      int
	RoomId      int
	CandidateId int
}

// CandidateVotes is one row of the per-room aggregation: every
// candidate of the room appears, including those without votes.
type CandidateVotes struct {
	Id        int
	Name      string
	VoteCount int
}

type Dashboard struct {
	TotalUsers      int
	TotalRooms      int
	TotalCandidates int
}

// AdminRoom is the moderation listing shape: a room plus its owner's
// name and candidates.
type AdminRoom struct {
	Room
	Owner string
}

type CreateUserParams struct {
	Email        string
	Fullname     string
	PasswordHash string
}

type CreateRoomParams struct {
	Name       string
	Start      int64
	End        int64
	Code       string
	OwnerId    int
	Candidates []string
}

type UpdateRoomParams struct {
	RoomId     int
	OwnerId    int
	Name       *string
	Start      *int64
	End        *int64
	Candidates []CandidatePatchParams
}

type CandidatePatchParams struct {
	Id   int
	Name string
}

type CreateVoteParams struct {
	UserId      int
	RoomId      int
	CandidateId int
}
