package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// 401: トークンが拒否された
	ErrAuthRejected = errors.New("auth rejected")
	// 通信できなかった（タイムアウト含む）
	ErrUnreachable = errors.New("remote api unreachable")
)

// リモートAPIが失敗を返した
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAuthRejected && e.Status == http.StatusUnauthorized
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}
