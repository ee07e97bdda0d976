package database

import "errors"

// ErrDuplicateVote is returned by CreateVote when the (user, room)
// uniqueness constraint rejects a second vote. Concurrent requests that
// pass the pre-insert existence check still end up here.
var ErrDuplicateVote = errors.New("user has already voted in room")

type JujurlyRepository interface {
	Ping() error

	CreateUser(params CreateUserParams) (User, error)
	GetUserByEmail(email string) (User, error)

	CreateRoom(params CreateRoomParams) (Room, error)
	DeleteRoom(roomId int, code string, ownerId int) error
	ListRooms(ownerId int) ([]Room, error)
	GetRoomById(roomId, ownerId int) (Room, error)
	GetRoomByCode(code string) (Room, error)
	UpdateRoom(params UpdateRoomParams) (Room, error)

	RoomExists(roomId int, code string) (bool, error)
	CandidateExists(candidateId, roomId int) (bool, error)
	HasVoted(userId, roomId int) (bool, error)
	CreateVote(params CreateVoteParams) error
	CountVotesByCandidate(roomId int) ([]CandidateVotes, error)

	GetAdminByUsername(username string) (Admin, error)
	CreateAdminSession(token Token, logEntry Log) error
	GetToken(value string) (Token, error)
	GetDashboard() (Dashboard, error)
	ListUsers() ([]User, error)
	ListAllRooms() ([]AdminRoom, error)
	ListLogs() ([]Log, error)
	DeleteUser(userId int) error
	AdminDeleteRoom(roomId int) error
}
