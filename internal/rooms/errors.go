package rooms

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrAlreadyVoted      = errors.New("you have already participated")
	ErrVotingNotStarted  = errors.New("voting has not started")
)
