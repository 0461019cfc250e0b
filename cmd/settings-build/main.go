package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"place-map/internal/logger"
	"place-map/internal/settingsbuild"
)

// 文档注释：构建期资源生成
// 背景：settings.hjson 中的地图密钥与统计 ID 以占位符提交，构建时从 .env 注入后转换为前端读取的 JSON。
// 约束：占位符对应的变量缺失时只告警，生成的值为空串。
func main() {
	envFile := ".env"
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--env" && i+1 < len(os.Args) {
			envFile = os.Args[i+1]
			i++
		}
	}
	_ = godotenv.Load(envFile)
	l := logger.Setup()

	tmpl := envOr("SETTINGS_TEMPLATE", "settings.hjson")
	hjsonDir := envOr("HJSON_DIR", "hjson")
	outDir := envOr("ASSETS_JSON_DIR", filepath.Join("docs", "assets", "json"))
	if os.Getenv("SKIP_MAKE_SETTINGS") == "true" {
		tmpl = ""
	}
	n, err := settingsbuild.Build(tmpl, hjsonDir, outDir, os.LookupEnv)
	if err != nil {
		l.Error("settings_build_error", "err", err)
		os.Exit(1)
	}
	l.Info("settings_build_done", "files", n)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
