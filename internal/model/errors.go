package model

import "errors"

// Sentinel errors shared by every store implementation.
var (
	ErrNotFound        = errors.New("record not found")
	ErrCPFExists       = errors.New("cpf already registered")
	ErrDailyCapReached = errors.New("teacher daily session cap reached")
)
