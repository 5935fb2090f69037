package pkg

import "errors"

// 核心错误分类，handler层用errors.Is映射HTTP状态码
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyBanned   = errors.New("already banned")
	ErrConflict        = errors.New("write conflict, retry") // 唯一键竞争失败，由调用方决定是否重试
)
