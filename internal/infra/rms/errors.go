package rms

import (
	"errors"
	"fmt"
)

var (
	ErrContextDone        = errors.New("отмена контекста")
	ErrRequestBuild       = errors.New("не удалось сформировать запрос к RMS")
	ErrRequestFailed      = errors.New("запрос к RMS не выполнен")
	ErrDecodeFailed       = errors.New("не удалось разобрать XML ответ RMS")
	ErrFileDownloadFailed = errors.New("не удалось загрузить файл")
)

// RemoteAPIError неуспешный ответ RMS API со статусом и телом ответа.
type RemoteAPIError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("RMS API %s вернул статус %d: %s", e.Endpoint, e.Status, e.Body)
}
