package s3store

import "errors"

var (
	ErrAWSConfig      = errors.New("не удалось загрузить конфигурацию AWS")
	ErrUploadFailed   = errors.New("не удалось загрузить объект в хранилище")
	ErrPresignFailed  = errors.New("не удалось подписать ссылку")
	ErrNoStaticKeys   = errors.New("для прямой подписи нужны ключ доступа и секрет")
	ErrNoSignerRole   = errors.New("для делегированной подписи нужен ARN роли")
	ErrObjectKeyEmpty = errors.New("ключ объекта не может быть пустым")
)
