package domain

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAuthRequired = errors.New("user must be authenticated")
)
