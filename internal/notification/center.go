// 包 notification：进程内发布订阅，组件间以字符串键传递通知
package notification

import (
	"sync"

	"place-map/internal/logger"
)

// Observer：通知回调，参数由发布方决定
type Observer func(param any)

// Center：通知中心
// 背景：替代全局单例，由组合根构造并注入；键到有序回调列表的映射
// 约束：Post 同步按注册顺序分发；分发期间不持锁，回调内可再次 Post 或注册，
// 新注册的回调不参与本次分发
type Center struct {
	mu        sync.Mutex
	observers map[string][]Observer
}

func NewCenter() *Center {
	return &Center{observers: make(map[string][]Observer)}
}

// AddObserver：在 key 下追加回调
func (c *Center) AddObserver(key string, fn Observer) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers[key] = append(c.observers[key], fn)
	c.mu.Unlock()
}

// RemoveObserver：移除 key 下全部回调
func (c *Center) RemoveObserver(key string) {
	c.mu.Lock()
	delete(c.observers, key)
	c.mu.Unlock()
}

// Post：向 key 下当前已注册的回调同步分发 param
func (c *Center) Post(key string, param any) {
	c.mu.Lock()
	fns := append([]Observer(nil), c.observers[key]...)
	c.mu.Unlock()
	logger.L().Debug("notification_post", "key", key, "observers", len(fns))
	for _, fn := range fns {
		fn(param)
	}
}

// Count：key 下的回调数量
func (c *Center) Count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers[key])
}
