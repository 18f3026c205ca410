package consts

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ShareUnavailable 被分享帖子不可见时的占位
const ShareUnavailable = "No Content"

// 推送事件
const (
	EventNotification       = "notification"
	EventRemoveNotification = "removeNotification"
)
