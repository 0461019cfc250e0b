package api

import (
	"sync"

	"place-map/internal/app"
	"place-map/internal/notification"
)

// navigation：由通知中心驱动的导航栏状态
type navigation struct {
	center *notification.Center

	mu            sync.RWMutex
	title         any
	left          any
	right         any
	unread        any
	networkActive bool
}

type navigationState struct {
	Title         any  `json:"title"`
	Left          any  `json:"left"`
	Right         any  `json:"right"`
	Unread        any  `json:"unread"`
	NetworkActive bool `json:"networkActive"`
}

// newNavigation：订阅导航相关通知；左按钮经 Top/Root 用例订阅
func newNavigation(w *app.Wire) *navigation {
	n := &navigation{center: w.Center}
	setLeft := func(item any) {
		n.mu.Lock()
		n.left = item
		n.mu.Unlock()
	}
	w.Top.SetNavigationBarLeftButtonSettingHandler(setLeft)
	w.Root.SetNavigationBarLeftButtonSettingHandler(setLeft)
	w.Center.AddObserver(notification.ShowNavigationBarRightButton, func(item any) {
		n.mu.Lock()
		n.right = item
		n.mu.Unlock()
	})
	w.Center.AddObserver(notification.ContentTitleChange, func(title any) {
		n.mu.Lock()
		n.title = title
		n.mu.Unlock()
	})
	w.Center.AddObserver(notification.RecalculatedUnreadCount, func(count any) {
		n.mu.Lock()
		n.unread = count
		n.mu.Unlock()
	})
	w.Center.AddObserver(notification.NetworkActiveStateChange, func(active any) {
		b, _ := active.(bool)
		n.mu.Lock()
		n.networkActive = b
		n.mu.Unlock()
	})
	return n
}

// post：按侧别发布按钮设置通知
func (n *navigation) post(side string, item any) bool {
	switch side {
	case "left":
		n.center.Post(notification.ShowNavigationBarLeftButton, item)
	case "right":
		n.center.Post(notification.ShowNavigationBarRightButton, item)
	default:
		return false
	}
	return true
}

func (n *navigation) snapshot() navigationState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return navigationState{Title: n.title, Left: n.left, Right: n.right, Unread: n.unread, NetworkActive: n.networkActive}
}
