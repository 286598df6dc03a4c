package credentials

import "errors"

var (
	// ErrEmptyToken возвращается, когда токен не передан
	ErrEmptyToken = errors.New("credentials: empty token")

	// ErrMalformedToken возвращается, когда токен не является JWT
	ErrMalformedToken = errors.New("credentials: malformed token")
)
