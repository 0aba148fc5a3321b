// Package main libraryctl 运维命令行工具
//
// 子命令：
//   - seed:        向数据库写入示例书目和客户（幂等，已存在的记录跳过）
//   - create-user: 交互式创建认证用户（密码掩码输入）
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"library-admin/internal/config"
	"library-admin/internal/storage/repository"
)

var rootCmd = &cobra.Command{
	Use:   "libraryctl",
	Short: "Library admin operations tool",
	Long:  "libraryctl manages the library database: seeding sample data and creating auth users.",
}

// openStore 按配置打开存储层（自动建表）
func openStore() (*repository.Store, error) {
	cfg := config.Load()
	log.Printf("Config: %s", cfg.String())
	return repository.Open(cfg.DBDriver, cfg.DatabaseDSN)
}

func main() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createUserCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
