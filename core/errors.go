package core

import (
	"errors"
	"fmt"
)

// DomainError 是带模块与错误码的领域错误。
//
// "用户不存在"、"邻居没有类别" 是正常情况，以空结果表达，不产生 DomainError。
type DomainError struct {
	Module  string // store / dataset / feature / recommend / pipeline
	Code    string // NOT_FOUND / INVALID_INPUT / ...
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// NewDomainError 创建领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// InvalidInputf 创建 INVALID_INPUT 错误，消息以模块名开头，例如 "dataset: duplicate User_ID"。
func InvalidInputf(module, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeInvalidInput, module+": "+fmt.Sprintf(format, args...))
}

// 错误码
const (
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeUnavailable   = "UNAVAILABLE"
	ErrorCodeInvalidInput  = "INVALID_INPUT"
	ErrorCodeInternalError = "INTERNAL_ERROR"
)

// 模块
const (
	ModuleStore     = "store"
	ModuleDataset   = "dataset"   // 数据加载与快照
	ModuleFeature   = "feature"   // Feast 用户来源
	ModuleRecommend = "recommend" // 查询服务
	ModulePipeline  = "pipeline"  // 后处理
)

// GetDomainError 返回错误链中的第一个 DomainError，没有则返回 nil。
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// IsDomainError 判断错误链中是否有 DomainError。
func IsDomainError(err error) bool { return GetDomainError(err) != nil }

// matches 判断错误链中的 DomainError 是否符合 module（为空时不限）与 code。
func matches(err error, module, code string) bool {
	de := GetDomainError(err)
	return de != nil && de.Code == code && (module == "" || de.Module == module)
}

func IsNotFound(err error) bool     { return matches(err, "", ErrorCodeNotFound) }
func IsUnavailable(err error) bool  { return matches(err, "", ErrorCodeUnavailable) }
func IsInvalidInput(err error) bool { return matches(err, "", ErrorCodeInvalidInput) }
