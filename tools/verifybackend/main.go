// 后端连通性验证工具
// 用法: go run tools/verifybackend/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"topup-client/api"
	"topup-client/common"
	"topup-client/conf"
)

func main() {
	_ = godotenv.Load()

	if err := conf.Init(); err != nil {
		fmt.Printf("✗ 配置加载失败: %v\n", err)
		os.Exit(1)
	}
	common.InitLogger()
	cfg := conf.GetConf()

	fmt.Printf("后端地址: %s\n", cfg.Backend.BaseURL)

	client, err := api.New(cfg)
	if err != nil {
		fmt.Printf("✗ 客户端创建失败: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Self(ctx)
	if err != nil {
		fmt.Printf("✗ 请求失败: %v\n", err)
		os.Exit(1)
	}
	if !resp.Success {
		fmt.Printf("✗ 后端拒绝: %s\n", resp.Message)
		os.Exit(1)
	}

	fmt.Println("✓ 后端连接正常")
	fmt.Printf("  用户: %s (id=%d)\n", resp.Data.Username, resp.Data.ID)
	fmt.Printf("  额度: %s\n", common.FormatQuota(resp.Data.Quota, cfg.Quota.PerUnit, cfg.Quota.DisplayInCurrency))
}
