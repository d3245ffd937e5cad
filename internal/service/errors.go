package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	UnprocessableEntity = 422
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserIDRequired      = errors.New("缺少 user_id 参数")
	ErrProviderInvalid     = errors.New("未知的服务商标识")
	ErrDateInvalid         = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrDateRangeInvalid    = errors.New("开始日期不能晚于结束日期")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrDailyStatNotFound   = errors.New("统计记录不存在")
	ErrMetricNotFound      = errors.New("指标记录不存在")
	ErrAccountLinkNotFound = errors.New("账号未绑定该服务商")
	ErrProviderNotWired    = errors.New("服务商适配器未注册")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrUserIDRequired:      UnprocessableEntity,
	ErrProviderInvalid:     UnprocessableEntity,
	ErrDateInvalid:         UnprocessableEntity,
	ErrDateRangeInvalid:    UnprocessableEntity,
	ErrUserNotFound:        NotFound,
	ErrDailyStatNotFound:   NotFound,
	ErrMetricNotFound:      NotFound,
	ErrAccountLinkNotFound: NotFound,
	ErrProviderNotWired:    BadRequest,
	UnExpectedError:        InternalServerError,
}
