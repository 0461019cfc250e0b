package usecase

import "place-map/internal/notification"

// TopUseCase：首页用例
type TopUseCase struct {
	center *notification.Center
}

func NewTopUseCase(c *notification.Center) *TopUseCase { return &TopUseCase{center: c} }

// SetNavigationBarLeftButtonSettingHandler：订阅导航栏左按钮显示请求
func (u *TopUseCase) SetNavigationBarLeftButtonSettingHandler(handler func(item any)) {
	u.center.AddObserver(notification.ShowNavigationBarLeftButton, notification.Observer(handler))
}

// RootUseCase：应用外壳用例
type RootUseCase struct {
	center *notification.Center
}

func NewRootUseCase(c *notification.Center) *RootUseCase { return &RootUseCase{center: c} }

func (u *RootUseCase) SetNavigationBarLeftButtonSettingHandler(handler func(item any)) {
	u.center.AddObserver(notification.ShowNavigationBarLeftButton, notification.Observer(handler))
}
