package votes

import "errors"

// Direction is a vote's polarity. "none" retracts a previous vote.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

var (
	ErrInvalidDirection = errors.New("invalid vote direction")
	ErrPostNotFound     = errors.New("post not found")
	ErrAlreadyVoted     = errors.New("already voted this way")
)

// ParseDirection validates a client-supplied direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown, DirectionNone:
		return Direction(s), nil
	}
	return "", ErrInvalidDirection
}

type voteOp int

const (
	opKeep   voteOp = iota // nothing to change
	opInsert               // first vote by this voter
	opDelete               // retract the existing vote
	opSwitch               // flip the existing vote's direction
)

// resolve maps a voter's existing entry (empty Direction if none) and the
// requested direction to the mutation to perform. A repeated same-direction
// vote is rejected; retracting a vote that was never cast is a no-op.
func resolve(existing, requested Direction) (voteOp, error) {
	if requested == DirectionNone {
		if existing == "" {
			return opKeep, nil
		}
		return opDelete, nil
	}

	switch existing {
	case "":
		return opInsert, nil
	case requested:
		return opKeep, ErrAlreadyVoted
	default:
		return opSwitch, nil
	}
}
