// Пакет service — бизнес-логика file-service: загрузка, список,
// чтение и удаление файлов, кэш метаданных, сборка осиротевших
// объектов и мониторинг зависимостей.
package service

import "errors"

// ErrNotFound — файл (запись или содержимое) не найден.
var ErrNotFound = errors.New("файл не найден")
