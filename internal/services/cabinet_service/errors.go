package cabinet_service

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")

	ErrInvalidRequest = errors.New("некорректный запрос")
	ErrRemoteAPI      = errors.New("ошибка RMS API")
	ErrArchiveBuild   = errors.New("не удалось собрать архив")
	ErrStorage        = errors.New("не удалось сохранить архив в хранилище")
	ErrSigning        = errors.New("не удалось подписать ссылку на скачивание")
)
