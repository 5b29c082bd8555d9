package apperror

import (
	"errors"
	"fmt"
)

// Kind 稳定的错误类型，对外返回，展示层据此决定文案
type Kind string

const (
	KindInvalidRequest     Kind = "INVALID_REQUEST"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidSignature   Kind = "INVALID_SIGNATURE"
	KindAlreadyProcessed   Kind = "ALREADY_PROCESSED"
	KindAmountMismatch     Kind = "AMOUNT_MISMATCH"
	KindOfferNotFound      Kind = "OFFER_NOT_FOUND"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindGatewayUnavailable Kind = "GATEWAY_UNAVAILABLE"
	KindStorageFailure     Kind = "STORAGE_FAILURE"
	KindUnauthorized       Kind = "UNAUTHORIZED"
)

// Error 结构化业务错误
type Error struct {
	Kind   Kind
	Detail string
	// OrderID 仅 ALREADY_PROCESSED 时携带，指向已存在的订单
	OrderID string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按 Kind 比较，使 errors.Is(err, apperror.New(KindX, "")) 成立
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf 取出错误链上的 Kind，非业务错误返回空串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As 取出错误链上的 *Error
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
