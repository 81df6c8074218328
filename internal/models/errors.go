package models

import "errors"

var (
	// ErrNotFound возвращается хранилищем, если запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists возвращается при нарушении уникальности (например, email).
	ErrAlreadyExists = errors.New("already exists")
)
