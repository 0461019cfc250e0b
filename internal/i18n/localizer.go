// 包 i18n：本地化资源安装与文本查找，基于 go-i18n
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"place-map/internal/logger"
)

var ErrNotInstalled = errors.New("i18n: no resources installed")

// Localizer：单语言本地化器
// 背景：启动时按解析出的语言安装一份翻译资源，之后只读查找
type Localizer struct {
	mu        sync.RWMutex
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	lang      string
	messages  map[string]string
}

func NewLocalizer() *Localizer { return &Localizer{} }

// Resources：已编译、尚未安装的一份翻译
type Resources struct {
	lang     string
	bundle   *goi18n.Bundle
	messages map[string]string
}

// Prepare：编译 lang 的扁平键值翻译，不改变当前安装的资源
func Prepare(lang string, messages map[string]string) (*Resources, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("i18n: bad language %q: %w", lang, err)
	}
	b := goi18n.NewBundle(tag)
	ms := make([]*goi18n.Message, 0, len(messages))
	for id, other := range messages {
		ms = append(ms, &goi18n.Message{ID: id, Other: other})
	}
	if err := b.AddMessages(tag, ms...); err != nil {
		return nil, fmt.Errorf("i18n: add messages: %w", err)
	}
	cp := make(map[string]string, len(messages))
	for k, v := range messages {
		cp[k] = v
	}
	return &Resources{lang: lang, bundle: b, messages: cp}, nil
}

// Use：安装 Prepare 的结果，替换此前安装的资源
func (l *Localizer) Use(r *Resources) {
	l.mu.Lock()
	l.bundle = r.bundle
	l.localizer = goi18n.NewLocalizer(r.bundle, r.lang)
	l.lang = r.lang
	l.messages = r.messages
	l.mu.Unlock()
	logger.L().Info("i18n_installed", "lang", r.lang, "messages", len(r.messages))
}

// Install：Prepare 后立即 Use
func (l *Localizer) Install(lang string, messages map[string]string) error {
	r, err := Prepare(lang, messages)
	if err != nil {
		return err
	}
	l.Use(r)
	return nil
}

// InstallJSON：解析 localize.json 后安装；嵌套对象按 a.b 展平
func (l *Localizer) InstallJSON(lang string, b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("i18n: decode: %w", err)
	}
	return l.Install(lang, Flatten(raw))
}

// Localize：查找 key 并以 data 渲染；缺失时返回错误与 key 本身
func (l *Localizer) Localize(key string, data any) (string, error) {
	l.mu.RLock()
	lz := l.localizer
	l.mu.RUnlock()
	if lz == nil {
		return key, ErrNotInstalled
	}
	s, err := lz.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		Funcs:        template.FuncMap{"format": Format},
	})
	if err != nil {
		return key, err
	}
	return s, nil
}

// T：Localize 的便捷形式，失败时返回 key
func (l *Localizer) T(key string) string {
	s, _ := l.Localize(key, nil)
	return s
}

// Language：当前安装的语言，未安装为空
func (l *Localizer) Language() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lang
}

// Messages：当前翻译的副本
func (l *Localizer) Messages() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.messages))
	for k, v := range l.messages {
		out[k] = v
	}
	return out
}

// Format：插值格式化；uppercase 转大写，时间值按 Go 布局格式化，其余原样
func Format(value any, format string) any {
	if format == "uppercase" {
		if s, ok := value.(string); ok {
			return strings.ToUpper(s)
		}
	}
	if t, ok := value.(time.Time); ok && format != "" {
		return t.Format(format)
	}
	return value
}

// Flatten：将嵌套翻译对象展平为 a.b 形式的键
func Flatten(raw map[string]any) map[string]string {
	out := make(map[string]string)
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		switch x := v.(type) {
		case map[string]any:
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				p := k
				if prefix != "" {
					p = prefix + "." + k
				}
				walk(p, x[k])
			}
		case string:
			out[prefix] = x
		case nil:
		default:
			out[prefix] = fmt.Sprint(x)
		}
	}
	walk("", raw)
	return out
}
