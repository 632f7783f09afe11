package store

import "context"

// RecordStore — generic key-value хранилище записей с префиксным сканом.
// Put атомарен по ключу, транзакций между ключами нет; порядок записей,
// возвращаемых ScanPrefix, не определён — сортирует вызывающий.
type RecordStore interface {
	Put(ctx context.Context, key string, value interface{}) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	ScanPrefix(ctx context.Context, prefix string) ([][]byte, error)
	Close() error
}
