package service

import "errors"

// Taxonomía de errores del dominio. Los handlers los traducen a códigos HTTP
// con errors.Is; todo lo que no calce aquí se trata como error interno.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUpload             = errors.New("upload failed")
)
