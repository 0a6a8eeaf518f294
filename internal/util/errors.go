package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrHabitNotFound    = errors.New("habit not found")
	ErrPermissionDenied = errors.New("permission denied")
)
