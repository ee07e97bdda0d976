// Package rooms implements the room lifecycle: creation with candidate
// sets, code-gated reads, one-vote-per-user voting and owner-scoped
// mutation. All persistence goes through database.JujurlyRepository;
// vote tallies come from the tally package.
package rooms

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/gufronnakaaw/jujurly-backend/internal/database"
	"github.com/gufronnakaaw/jujurly-backend/internal/roomcode"
	"github.com/gufronnakaaw/jujurly-backend/internal/tally"
	"github.com/gufronnakaaw/jujurly-backend/internal/types"
	"github.com/gufronnakaaw/jujurly-backend/internal/validation"
)

type Service struct {
	log          *log.Logger
	db           database.JujurlyRepository
	generateCode func(int) string
	now          func() time.Time
}

func NewService(logger *log.Logger, db database.JujurlyRepository) *Service {
	return &Service{
		log:          logger,
		db:           db,
		generateCode: roomcode.Generate,
		now:          time.Now,
	}
}

// Create validates and persists a new room with its candidate set,
// assigning a fresh access code. The response echoes the submitted
// candidate names alongside their assigned ids.
func (s *Service) Create(ownerId int, req types.CreateRoomRequest) (types.RoomDetail, error) {
	if err := validation.CreateRoom(req); err != nil {
		return types.RoomDetail{}, err
	}

	names := make([]string, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		names = append(names, c.Name)
	}

	room, err := s.db.CreateRoom(database.CreateRoomParams{
		Name:       req.Name,
		Start:      req.Start,
		End:        req.End,
		Code:       s.generateCode(roomcode.DefaultLength),
		OwnerId:    ownerId,
		Candidates: names,
	})
	if err != nil {
		return types.RoomDetail{}, err
	}

	return roomDetail(room), nil
}

// Delete removes a room matching id, code and owner all at once.
// A mismatch on any of the three is reported as ErrRoomNotFound
// without distinguishing which check failed.
func (s *Service) Delete(ownerId int, req types.DeleteRoomRequest) error {
	if err := validation.DeleteRoom(req); err != nil {
		return err
	}

	err := s.db.DeleteRoom(req.RoomId, req.Code, ownerId)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}

	return err
}

func (s *Service) List(ownerId int) ([]types.RoomSummary, error) {
	dbRooms, err := s.db.ListRooms(ownerId)
	if err != nil {
		return nil, err
	}

	rooms := make([]types.RoomSummary, 0, len(dbRooms))
	for _, r := range dbRooms {
		rooms = append(rooms, roomSummary(r))
	}

	return rooms, nil
}

func (s *Service) GetById(ownerId, roomId int) (types.RoomDetail, error) {
	if err := validation.GetRooms(roomId, true, ""); err != nil {
		return types.RoomDetail{}, err
	}

	room, err := s.db.GetRoomById(roomId, ownerId)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RoomDetail{}, ErrRoomNotFound
	}
	if err != nil {
		return types.RoomDetail{}, err
	}

	return roomDetail(room), nil
}

// GetByCode is the voter-facing join flow. Rooms whose start time lies
// in the future yield ErrVotingNotStarted rather than a tally, so
// callers can tell "opens later" apart from "does not exist".
func (s *Service) GetByCode(code string) (types.RoomResult, error) {
	if err := validation.GetRooms(0, false, code); err != nil {
		return types.RoomResult{}, err
	}

	room, err := s.db.GetRoomByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RoomResult{}, ErrRoomNotFound
	}
	if err != nil {
		return types.RoomResult{}, err
	}

	if s.now().UnixMilli() < room.Start {
		return types.RoomResult{}, ErrVotingNotStarted
	}

	return s.tallyRoom(room)
}

// ResultByCode computes the current result set for a room without the
// start-time gate. Used by the live results feed after a vote lands.
func (s *Service) ResultByCode(code string) (types.RoomResult, error) {
	room, err := s.db.GetRoomByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RoomResult{}, ErrRoomNotFound
	}
	if err != nil {
		return types.RoomResult{}, err
	}

	return s.tallyRoom(room)
}

func (s *Service) tallyRoom(room database.Room) (types.RoomResult, error) {
	counts, err := s.db.CountVotesByCandidate(room.Id)
	if err != nil {
		return types.RoomResult{}, err
	}

	raw := make([]tally.CandidateCount, 0, len(counts))
	for _, c := range counts {
		raw = append(raw, tally.CandidateCount{Id: c.Id, Name: c.Name, VoteCount: c.VoteCount})
	}

	res := tally.Compute(raw)

	return types.RoomResult{
		RoomSummary: roomSummary(room),
		TotalVotes:  res.TotalVotes,
		Candidates:  res.Candidates,
	}, nil
}

// Vote casts the caller's single vote in a room. Checks run in fixed
// order: room by (id, code), candidate under that room, then the
// duplicate-vote check. The storage-level uniqueness constraint backs
// up the last check, so two concurrent votes cannot both land.
func (s *Service) Vote(userId int, req types.CreateVoteRequest) error {
	if err := validation.CreateVote(req); err != nil {
		return err
	}

	roomOk, err := s.db.RoomExists(req.RoomId, req.Code)
	if err != nil {
		return err
	}
	if !roomOk {
		return ErrRoomNotFound
	}

	candOk, err := s.db.CandidateExists(req.Candidate.Id, req.RoomId)
	if err != nil {
		return err
	}
	if !candOk {
		return ErrCandidateNotFound
	}

	voted, err := s.db.HasVoted(userId, req.RoomId)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}

	err = s.db.CreateVote(database.CreateVoteParams{
		UserId:      userId,
		RoomId:      req.RoomId,
		CandidateId: req.Candidate.Id,
	})
	if errors.Is(err, database.ErrDuplicateVote) {
		return ErrAlreadyVoted
	}

	return err
}

// Update applies an owner's patch and returns the refreshed room with
// its full candidate list.
func (s *Service) Update(ownerId int, req types.UpdateRoomRequest) (types.RoomDetail, error) {
	if err := validation.UpdateRoom(req); err != nil {
		return types.RoomDetail{}, err
	}

	patches := make([]database.CandidatePatchParams, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		patches = append(patches, database.CandidatePatchParams{Id: c.Id, Name: c.Name})
	}

	room, err := s.db.UpdateRoom(database.UpdateRoomParams{
		RoomId:     req.RoomId,
		OwnerId:    ownerId,
		Name:       req.Name,
		Start:      req.Start,
		End:        req.End,
		Candidates: patches,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return types.RoomDetail{}, ErrRoomNotFound
	}
	if err != nil {
		return types.RoomDetail{}, err
	}

	return roomDetail(room), nil
}

func roomSummary(r database.Room) types.RoomSummary {
	return types.RoomSummary{
		Id:    r.Id,
		Name:  r.Name,
		Start: r.Start,
		End:   r.End,
		Code:  r.Code,
	}
}

func roomDetail(r database.Room) types.RoomDetail {
	candidates := make([]types.Candidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, types.Candidate{Id: c.Id, Name: c.Name})
	}

	return types.RoomDetail{
		RoomSummary: roomSummary(r),
		Candidates:  candidates,
	}
}
