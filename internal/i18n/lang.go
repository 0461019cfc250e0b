package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LangJapanese = "ja"
	LangEnglish  = "en"
)

// ResolveLanguage：首选语言前两位为 ja 时返回 ja，否则返回 en
// 约束：仅看第一个首选语言；空列表回退 en
func ResolveLanguage(preferred []string) string {
	if len(preferred) == 0 {
		return LangEnglish
	}
	first := strings.TrimSpace(preferred[0])
	if len(first) >= 2 && strings.EqualFold(first[:2], LangJapanese) {
		return LangJapanese
	}
	return LangEnglish
}

// LocalizePath：语言对应的本地化资源路径
func LocalizePath(lang string) string {
	return "assets/json/i18n/" + lang + "/localize.json"
}

// PreferredLanguages：将 Accept-Language 头解析为按权重排序的语言列表
// 背景：服务端没有 navigator.languages，以同格式的头部或环境变量代替
// 约束：解析失败时按逗号切分原文，保留顺序
func PreferredLanguages(acceptLanguage string) []string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		var out []string
		for _, s := range strings.Split(acceptLanguage, ",") {
			if s = strings.TrimSpace(strings.SplitN(s, ";", 2)[0]); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
