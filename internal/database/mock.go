package database

import (
	"github.com/stretchr/testify/mock"
)

type MockJujurlyRepository struct {
	mock.Mock
}

func (m *MockJujurlyRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockJujurlyRepository) CreateUser(params CreateUserParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockJujurlyRepository) GetUserByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockJujurlyRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockJujurlyRepository) DeleteRoom(roomId int, code string, ownerId int) error {
	args := m.Called(roomId, code, ownerId)
	return args.Error(0)
}
func (m *MockJujurlyRepository) ListRooms(ownerId int) ([]Room, error) {
	args := m.Called(ownerId)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockJujurlyRepository) GetRoomById(roomId, ownerId int) (Room, error) {
	args := m.Called(roomId, ownerId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockJujurlyRepository) GetRoomByCode(code string) (Room, error) {
	args := m.Called(code)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockJujurlyRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockJujurlyRepository) RoomExists(roomId int, code string) (bool, error) {
	args := m.Called(roomId, code)
	return args.Bool(0), args.Error(1)
}
func (m *MockJujurlyRepository) CandidateExists(candidateId, roomId int) (bool, error) {
	args := m.Called(candidateId, roomId)
	return args.Bool(0), args.Error(1)
}
func (m *MockJujurlyRepository) HasVoted(userId, roomId int) (bool, error) {
	args := m.Called(userId, roomId)
	return args.Bool(0), args.Error(1)
}
func (m *MockJujurlyRepository) CreateVote(params CreateVoteParams) error {
	args := m.Called(params)
	return args.Error(0)
}
func (m *MockJujurlyRepository) CountVotesByCandidate(roomId int) ([]CandidateVotes, error) {
	args := m.Called(roomId)
	return args.Get(0).([]CandidateVotes), args.Error(1)
}
func (m *MockJujurlyRepository) GetAdminByUsername(username string) (Admin, error) {
	args := m.Called(username)
	return args.Get(0).(Admin), args.Error(1)
}
func (m *MockJujurlyRepository) CreateAdminSession(token Token, logEntry Log) error {
	args := m.Called(token, logEntry)
	return args.Error(0)
}
func (m *MockJujurlyRepository) GetToken(value string) (Token, error) {
	args := m.Called(value)
	return args.Get(0).(Token), args.Error(1)
}
func (m *MockJujurlyRepository) GetDashboard() (Dashboard, error) {
	args := m.Called()
	return args.Get(0).(Dashboard), args.Error(1)
}
func (m *MockJujurlyRepository) ListUsers() ([]User, error) {
	args := m.Called()
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockJujurlyRepository) ListAllRooms() ([]AdminRoom, error) {
	args := m.Called()
	return args.Get(0).([]AdminRoom), args.Error(1)
}
func (m *MockJujurlyRepository) ListLogs() ([]Log, error) {
	args := m.Called()
	return args.Get(0).([]Log), args.Error(1)
}
func (m *MockJujurlyRepository) DeleteUser(userId int) error {
	args := m.Called(userId)
	return args.Error(0)
}
func (m *MockJujurlyRepository) AdminDeleteRoom(roomId int) error {
	args := m.Called(roomId)
	return args.Error(0)
}
