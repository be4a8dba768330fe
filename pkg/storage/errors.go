package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrStatusConflict is returned when a conditional status write finds the
// record in a different state than the caller expected.
var ErrStatusConflict = errors.New("status changed concurrently")

// ErrAlreadyInvested is returned when the has_invested compare-and-set loses,
// i.e. the user's first investment has already been recorded.
var ErrAlreadyInvested = errors.New("user has already invested")

// ErrInsufficientFunds is returned when a debit would take a balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicate is returned when a record with the same key already exists.
var ErrDuplicate = errors.New("duplicate record")
