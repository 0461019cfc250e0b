package utils

import (
	"os"
	"strings"

	"github.com/olivere/elastic/v7"
)

// OpenElastic：连接 Elasticsearch
// 约束：单节点或经代理访问时关闭嗅探；ES_USER 非空时使用基本认证
func OpenElastic(url string) (*elastic.Client, error) {
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(os.Getenv("ES_SNIFF") == "true"),
	}
	if user := strings.TrimSpace(os.Getenv("ES_USER")); user != "" {
		opts = append(opts, elastic.SetBasicAuth(user, os.Getenv("ES_PASSWORD")))
	}
	return elastic.NewClient(opts...)
}
