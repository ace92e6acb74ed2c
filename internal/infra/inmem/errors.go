package inmem

import "errors"

var (
	ErrObjectNotFound   = errors.New("объект не найден")
	ErrObjectKeyEmpty   = errors.New("ключ объекта не может быть пустым")
	ErrContextDone      = errors.New("отмена контекста")
	ErrInvalidTTL       = errors.New("срок жизни ссылки должен быть положительным")
	ErrLinkExpired      = errors.New("срок действия ссылки истек")
	ErrInvalidSignature = errors.New("некорректная подпись ссылки")
)
