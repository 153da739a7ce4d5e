package gameerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 定义了游戏核心错误的分类枚举
type Kind int

const (
	// KindValidation 表示请求输入缺失或格式错误，在触碰任何状态前被拒绝
	KindValidation Kind = iota
	// KindNotFound 表示引用的玩家/审判/指控/任务不存在
	KindNotFound
	// KindForbidden 表示行动者缺少所需的身份、能力或时机
	KindForbidden
	// KindConflict 表示并发写入冲突或与现有状态矛盾的操作
	KindConflict
	// KindDependency 表示持久化层不可用
	KindDependency
)

// Error 是携带分类信息的游戏错误。
// 它包装底层错误，保持与errors.Is/As的兼容。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建一个指定分类的新错误
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap 在保留底层错误的同时附加分类和描述
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf 提取错误的分类。未分类的错误按依赖失败处理，
// 因为核心逻辑中所有可预见的失败都已经被显式分类。
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindDependency
}

// Is 判断错误是否属于指定分类
func Is(err error, kind Kind) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}

// HTTPStatus 将错误分类映射为HTTP状态码，供所有handler统一使用
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
