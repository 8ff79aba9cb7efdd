package models

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInvalid  = errors.New("session invalid")
	ErrTokenRequired   = errors.New("token is required")
)

var (
	ErrStorageRead   = errors.New("storage read error")
	ErrStorageWrite  = errors.New("storage write error")
	ErrStorageDelete = errors.New("storage delete error")
	ErrUnknownStore  = errors.New("unknown storage backend")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseUpdate     = errors.New("database update error")
	ErrDatabaseDelete     = errors.New("database delete error")
)

var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenNoExpiration = errors.New("token has no expiration claim")
)

var (
	ErrPublishActivity = errors.New("failed to publish activity message")
)
