package provider

import (
	"Pulseboard/internal/model"
	"context"
	"errors"
	"fmt"
	"time"
)

// Metric 适配器输出的归一化指标元组
type Metric struct {
	Type  string
	Value float64
	Unit  *string
	Meta  model.MetaMap
}

// Fetcher 服务商适配器的能力接口：拉取指定日期的数据并归一化为指标列表。
// 适配器是纯转换步骤，不感知 DailyStat 是否存在。
// 返回 KindDataMissing 错误时允许同时返回已解析出的部分指标
type Fetcher interface {
	Provider() string
	FetchMetrics(ctx context.Context, link *model.AccountLink, date time.Time) ([]Metric, error)
}

// Kind 适配器错误分类
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthExpired
	KindUnavailable
	KindDataMissing
)

func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindUnavailable:
		return "unavailable"
	case KindDataMissing:
		return "data_missing"
	default:
		return "unknown"
	}
}

// Error 带分类的适配器错误
type Error struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func AuthExpired(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindAuthExpired, Err: err}
}

func Unavailable(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindUnavailable, Err: err}
}

func DataMissing(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindDataMissing, Err: err}
}

// KindOf 提取错误分类，非适配器错误归为 KindUnknown
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// classifyStatus 按上游 HTTP 状态码归类错误
func classifyStatus(provider string, status int, body string) *Error {
	err := fmt.Errorf("upstream status %d: %s", status, truncate(body, 200))
	switch {
	case status == 401 || status == 403:
		return AuthExpired(provider, err)
	case status == 404:
		return DataMissing(provider, err)
	default:
		return Unavailable(provider, err)
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// Registry 按服务商标识索引适配器，采集任务遍历注册表而非 switch 分发
type Registry struct {
	fetchers map[string]Fetcher
}

func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Provider()] = f
	}
	return r
}

func (r *Registry) Register(f Fetcher) {
	r.fetchers[f.Provider()] = f
}

// Get 返回服务商对应的适配器，未注册时返回 nil
func (r *Registry) Get(provider string) Fetcher {
	return r.fetchers[provider]
}
