package domain

import "errors"

// Configuration errors abort a session.
var (
	ErrUnknownRule          = errors.New("unknown rule kind")
	ErrUnknownSubtype       = errors.New("unknown prompt subtype")
	ErrUnknownItemKind      = errors.New("unknown script item kind")
	ErrUndefinedBundle      = errors.New("state entered without a script item")
	ErrPermutationTooLong   = errors.New("permutation encoding supports at most 9 positions")
	ErrMalformedPermutation = errors.New("malformed permutation code")
	ErrConditionOutOfRange  = errors.New("rule condition out of range")
	ErrEmptyScript          = errors.New("script has no items")
	ErrNoAnswers            = errors.New("prompt has no answers")
)

// Protocol violations are rejected locally and never broadcast.
var (
	ErrNotAuthority     = errors.New("peer is not authoritative for entity")
	ErrAnswerOutOfRange = errors.New("answer index out of range")
	ErrInvalidHalf      = errors.New("invalid session half")
	ErrWrongPhase       = errors.New("input not accepted in current phase")
)

var ErrHistoryNotFound = errors.New("history not found")
