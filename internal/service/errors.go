package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid   = errors.New("参数错误")
	ErrPeriodInvalid  = errors.New("不支持的榜单周期")
	ErrRecomputeBusy  = errors.New("榜单正在计算中，请稍后重试")
	UnauthorizedError = errors.New("权限不足")
	UnExpectedError   = errors.New("系统异常，请稍后重试")
)

// 榜单任务错误分类
var (
	// ErrTransientStorage 读写存储时连接失败或超时，调用方可整体重试
	ErrTransientStorage = errors.New("存储暂不可用，请稍后重试")
	// ErrDataIntegrity 单条视频数据不满足计算前提，仅记录日志并跳过
	ErrDataIntegrity = errors.New("视频数据异常")
	// ErrPartialWrite 旧榜单删除后新榜单写入失败，事务已回滚，本次任务失败
	ErrPartialWrite = errors.New("榜单写入失败，已保留上一版本")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrPeriodInvalid:    BadRequest,
	ErrRecomputeBusy:    Conflict,
	ErrTransientStorage: ServiceUnavailable,
	ErrPartialWrite:     InternalServerError,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}

// LookupErrorCode 按 errors.Is 匹配 ErrorMap，兼容被包装的错误
func LookupErrorCode(err error) (error, int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return err, code, true
	}
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return known, code, true
		}
	}
	return nil, 0, false
}
