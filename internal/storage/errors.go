package storage

import "errors"

// ErrObjectNotFound 表示请求的对象在 Bucket 中不存在。
var ErrObjectNotFound = errors.New("storage: object not found")
