package service

import (
	"errors"
	"fmt"
)

// ErrorKind 业务错误分类，决定外层如何呈现
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindPermission    ErrorKind = "permission"
	KindNotFound      ErrorKind = "not_found"
	KindAuthorization ErrorKind = "authorization"
)

// Reason 稳定的错误原因码
type Reason string

const (
	ReasonMessagingDisabled    Reason = "messaging_disabled"
	ReasonSelfTarget           Reason = "self_target"
	ReasonUserNotFound         Reason = "user_not_found"
	ReasonUserDisabled         Reason = "user_disabled"
	ReasonUserPending          Reason = "user_pending"
	ReasonUnableToSend         Reason = "unable_to_send"
	ReasonNotMutualFollow      Reason = "not_mutual_follow"
	ReasonEmptyBody            Reason = "empty_body"
	ReasonBodyTooLong          Reason = "body_too_long"
	ReasonInvalidID            Reason = "invalid_id"
	ReasonConversationNotFound Reason = "conversation_not_found"
	ReasonMessageNotFound      Reason = "message_not_found"
	ReasonNotParticipant       Reason = "not_participant"
	ReasonInvalidSetting       Reason = "invalid_setting"
)

// Error 业务错误，基础设施错误不会包装成 Error
type Error struct {
	Kind    ErrorKind
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Is 按 Kind 和 Reason 匹配，使带参数的错误也能和哨兵错误比较
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

func newError(kind ErrorKind, reason Reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

var (
	ErrMessagingDisabled    = newError(KindPermission, ReasonMessagingDisabled, "私信功能已关闭")
	ErrCannotMessageSelf    = newError(KindPermission, ReasonSelfTarget, "不能给自己发私信")
	ErrCannotFollowSelf     = newError(KindPermission, ReasonSelfTarget, "不能关注自己")
	ErrCannotBlockSelf      = newError(KindPermission, ReasonSelfTarget, "不能拉黑自己")
	ErrUserNotFound         = newError(KindNotFound, ReasonUserNotFound, "用户不存在")
	ErrUserDisabled         = newError(KindPermission, ReasonUserDisabled, "该用户已被禁用")
	ErrUserPending          = newError(KindPermission, ReasonUserPending, "该用户尚未通过审核")
	ErrUnableToSend         = newError(KindPermission, ReasonUnableToSend, "无法发送私信")
	ErrNotMutualFollow      = newError(KindPermission, ReasonNotMutualFollow, "互相关注后才能发送私信")
	ErrEmptyBody            = newError(KindValidation, ReasonEmptyBody, "消息内容不能为空")
	ErrBodyTooLong          = newError(KindValidation, ReasonBodyTooLong, "消息内容过长")
	ErrInvalidID            = newError(KindValidation, ReasonInvalidID, "无效的ID")
	ErrConversationNotFound = newError(KindNotFound, ReasonConversationNotFound, "会话不存在")
	ErrMessageNotFound      = newError(KindNotFound, ReasonMessageNotFound, "消息不存在")
	ErrNotParticipant       = newError(KindAuthorization, ReasonNotParticipant, "您不是该会话的参与者")
	ErrInvalidSetting       = newError(KindValidation, ReasonInvalidSetting, "设置值无效")
)

// AsError 提取业务错误
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回业务错误分类，非业务错误返回 false
func KindOf(err error) (ErrorKind, bool) {
	if e, ok := AsError(err); ok {
		return e.Kind, true
	}
	return "", false
}
