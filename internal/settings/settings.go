// 包 settings：应用设置存储，启动时由下载的 settings.json 一次性写入，之后只读
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotSet      = errors.New("settings: must be set")
	ErrAlreadySet  = errors.New("settings: already set")
	ErrKeyNotFound = errors.New("settings: key not found")
)

// Settings：键值设置存储
// 背景：替代进程级单例，由组合根构造后注入到需要读取设置的组件
// 约束：写一次读多次；读写均加锁，允许在 HTTP 协程中并发读取
type Settings struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func New() *Settings { return &Settings{} }

// Set：提交设置对象；重复写入返回 ErrAlreadySet
func (s *Settings) Set(values map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values != nil {
		return ErrAlreadySet
	}
	if values == nil {
		values = map[string]json.RawMessage{}
	}
	s.values = values
	return nil
}

// SetJSON：解析 JSON 对象并提交；非对象负载返回解析错误
func (s *Settings) SetJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("settings: decode: %w", err)
	}
	return s.Set(m)
}

// IsSet：是否已写入
func (s *Settings) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values != nil
}

// ValueForKey：按键读取原始 JSON；写入前调用返回 ErrNotSet
func (s *Settings) ValueForKey(key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.values == nil {
		return nil, ErrNotSet
	}
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

// Decode：读取键并解码到 out
func (s *Settings) Decode(key string, out any) error {
	raw, err := s.ValueForKey(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("settings: decode %s: %w", key, err)
	}
	return nil
}
