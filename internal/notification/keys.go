package notification

// 通知键
const (
	// 内容主标题变化
	ContentTitleChange = "contentTitleChange"
	// 未读数重新计算
	RecalculatedUnreadCount = "recalculatedUnreadCount"
	// 导航栏左按钮显示请求（不含样式变更）
	ShowNavigationBarLeftButton = "showNavigationBarLeftButton"
	// 导航栏右按钮显示请求
	ShowNavigationBarRightButton = "showNavigationBarRightButton"
	// 网络活动状态变化，参数为 bool
	NetworkActiveStateChange = "networkActiveStateChange"
)
