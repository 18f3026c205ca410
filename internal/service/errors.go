package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrPostNotFound         = errors.New("帖子不存在")
	ErrPostCommentNotFound  = errors.New("评论不存在")
	ErrPostReplyNotFound    = errors.New("回复不存在")
	ErrNotAuthor            = errors.New("无权操作他人内容")
	ErrActionLocked         = errors.New("操作过于频繁，请稍后再试")
	ErrPostAlreadyShared    = errors.New("已分享过该帖子")
	ErrPostPrivateShare     = errors.New("非公开帖子不能分享")
	ErrPostAlreadySaved     = errors.New("帖子已收藏")
	ErrPostNotSaved         = errors.New("帖子未收藏")
	ErrPostAlreadyReported  = errors.New("已举报过该帖子")
	ErrUserFollowSelf       = errors.New("不能关注自己")
	ErrConnectionExist      = errors.New("关注关系已存在")
	ErrConnectionNotFound   = errors.New("关注关系不存在或状态不符")
	ErrNotificationNotFound = errors.New("通知不存在")
	UnauthorizedError       = errors.New("未登录或登录已失效")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrPostNotFound:         NotFound,
	ErrPostCommentNotFound:  NotFound,
	ErrPostReplyNotFound:    NotFound,
	ErrNotAuthor:            Forbidden,
	ErrActionLocked:         Conflict,
	ErrPostAlreadyShared:    BadRequest,
	ErrPostPrivateShare:     Forbidden,
	ErrPostAlreadySaved:     BadRequest,
	ErrPostNotSaved:         NotFound,
	ErrPostAlreadyReported:  BadRequest,
	ErrUserFollowSelf:       BadRequest,
	ErrConnectionExist:      BadRequest,
	ErrConnectionNotFound:   NotFound,
	ErrNotificationNotFound: NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
