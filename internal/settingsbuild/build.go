// 包 settingsbuild：构建期资源生成
// 流程：settings.hjson 占位符替换 → 写入 hjson 目录 → hjson 目录整体转换为 JSON 写入资源目录
package settingsbuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"

	"place-map/internal/logger"
)

// 占位符与对应的环境变量
var Placeholders = map[string]string{
	"%%GOOGLE_MAP_API_KEY%%":  "GOOGLE_MAP_API_KEY",
	"%%GOOGLE_ANALYTICS_ID%%": "GOOGLE_ANALYTICS_ID",
}

// MakeSettings：以 lookup 提供的值替换模板中的占位符
// 约束：变量未设置时替换为空串并在 missing 中返回变量名
func MakeSettings(tmpl []byte, lookup func(string) (string, bool)) (out []byte, missing []string) {
	out = tmpl
	for ph, env := range Placeholders {
		if !bytes.Contains(out, []byte(ph)) {
			continue
		}
		v, ok := lookup(env)
		if !ok {
			missing = append(missing, env)
		}
		out = bytes.ReplaceAll(out, []byte(ph), []byte(v))
	}
	return out, missing
}

// HJSONToJSON：将一份 HJSON 文档转为缩进 JSON
func HJSONToJSON(b []byte) ([]byte, error) {
	var v any
	if err := hjson.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// ConvertTree：把 src 下所有 .hjson 文件转换为 dst 下同相对路径的 .json 文件，返回转换数
func ConvertTree(src, dst string) (int, error) {
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".hjson") {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out, err := HJSONToJSON(b)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		target := filepath.Join(dst, strings.TrimSuffix(rel, filepath.Ext(rel))+".json")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return err
		}
		logger.L().Debug("hjson_converted", "src", rel, "dst", target)
		n++
		return nil
	})
	return n, err
}

// Build：执行完整流程
// 约束：settings 模板为空路径时跳过替换，仅转换目录
func Build(settingsPath, hjsonDir, outDir string, lookup func(string) (string, bool)) (int, error) {
	l := logger.L()
	if settingsPath != "" {
		tmpl, err := os.ReadFile(settingsPath)
		if err != nil {
			return 0, fmt.Errorf("read settings template: %w", err)
		}
		out, missing := MakeSettings(tmpl, lookup)
		if len(missing) > 0 {
			l.Warn("settings_env_missing", "vars", missing)
		}
		if err := os.MkdirAll(hjsonDir, 0o755); err != nil {
			return 0, err
		}
		if err := os.WriteFile(filepath.Join(hjsonDir, filepath.Base(settingsPath)), out, 0o644); err != nil {
			return 0, err
		}
		l.Info("settings_made", "dst", hjsonDir)
	}
	n, err := ConvertTree(hjsonDir, outDir)
	if err != nil {
		return n, err
	}
	l.Info("hjson_convert_done", "files", n, "dst", outDir)
	return n, nil
}
