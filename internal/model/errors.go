package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrNotFound  = errors.New("match not found")
	ErrMatchFull = errors.New("match is full")

	// Move errors. Rejections wrap ErrInvalidMove with the specific reason.
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidLetter = errors.New("letter must be S or O")
	ErrIllegalMove   = errors.New("illegal board write")

	// Match errors
	ErrInvalidMode        = errors.New("invalid game mode")
	ErrNotInMatch         = errors.New("player is not in match")
	ErrAlreadyInMatch     = errors.New("player is already in match")
	ErrRematchUnavailable = errors.New("rematch needs both players present")

	// Transport errors
	ErrInvalidIntent = errors.New("invalid intent")
)
