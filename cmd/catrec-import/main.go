// catrec-import 读取 CSV 数据文件，把快照写入 Redis，供 data.source=store 的服务加载。
package main

import (
	"context"
	"flag"
	"time"

	"github.com/rushteam/catrec/dataset"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/store"
)

func main() {
	usersPath := flag.String("users", "users_clean.csv", "用户表 CSV")
	simPath := flag.String("similarity", "user_similarity.csv", "相似度矩阵 CSV")
	addr := flag.String("redis", "localhost:6379", "Redis 地址")
	db := flag.Int("db", 0, "Redis DB")
	password := flag.String("password", "", "Redis 密码")
	prefix := flag.String("prefix", dataset.DefaultSnapshotPrefix, "快照 key 前缀")
	timeout := flag.Duration("timeout", 30*time.Second, "写入超时")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: "console"})

	snap, err := dataset.LoadFiles(*usersPath, *simPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load data files")
	}

	rs, err := store.NewRedisStore(store.RedisConfig{Addr: *addr, Password: *password, DB: *db})
	if err != nil {
		logging.Fatal().Err(err).Str("addr", *addr).Msg("failed to connect redis")
	}
	defer rs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := dataset.SaveSnapshot(ctx, rs, *prefix, snap); err != nil {
		logging.Fatal().Err(err).Msg("failed to save snapshot")
	}

	logging.Info().
		Str("prefix", *prefix).
		Int("users", snap.Users.Len()).
		Int("similarity_size", snap.Similarity.Len()).
		Msg("snapshot imported")
}
