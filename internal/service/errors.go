package service

import "errors"

// Таксономия ошибок домена. Сервисы оборачивают их через fmt.Errorf("%w: ..."),
// delivery-слой маппит на HTTP статус через errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")  // 401
	ErrForbidden       = errors.New("forbidden")        // 403
	ErrNotFound        = errors.New("not found")        // 404
	ErrInvalidInput    = errors.New("invalid input")    // 400
	ErrUpstream        = errors.New("upstream failure") // 500
)
