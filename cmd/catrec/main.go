// catrec 在命令行中为一个用户给出类别推荐，并列出相似邻居作为解释。
//
// 用法：
//
//	catrec -users users_clean.csv -similarity user_similarity.csv -user U1 -k 10 -n 3
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"

	"github.com/rushteam/catrec/config"
	_ "github.com/rushteam/catrec/config/builders"
	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/dataset"
	"github.com/rushteam/catrec/explain"
	"github.com/rushteam/catrec/pkg/logging"
	"github.com/rushteam/catrec/service"
	"github.com/rushteam/catrec/settings"
)

func main() {
	usersPath := flag.String("users", "users_clean.csv", "用户表 CSV")
	simPath := flag.String("similarity", "user_similarity.csv", "相似度矩阵 CSV")
	userID := flag.String("user", "", "要推荐的 User_ID（必填）")
	k := flag.Int("k", 10, "邻居数量（>= 1）")
	n := flag.Int("n", 3, "推荐类别数量（>= 1）")
	pipelinePath := flag.String("pipeline", "", "后处理 Pipeline YAML（可选）")
	fields := flag.String("fields", "", "解释表列，逗号分隔（默认 User_ID,Age,Gender,Location,Interests,Product_Category_Preference）")
	asJSON := flag.Bool("json", false, "以 JSON 输出")
	flag.Parse()

	logging.Init(logging.Config{Level: "warn", Format: "console"})

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "catrec: -user is required")
		flag.Usage()
		os.Exit(2)
	}
	if err := checkCounts(*k, *n); err != nil {
		fmt.Fprintln(os.Stderr, "catrec:", err)
		os.Exit(2)
	}

	rec, err := newRecommender(*usersPath, *simPath, *pipelinePath, *fields)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize")
	}

	res, err := rec.Recommend(context.Background(), service.Query{
		UserID:         *userID,
		TopKNeighbors:  *k,
		TopNCategories: *n,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("recommend failed")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logging.Fatal().Err(err).Msg("encode result")
		}
		return
	}
	render(os.Stdout, res)
}

// checkCounts 拒绝 0 与负数：服务端把 0 当作默认值，命令行上显式写 0 多半是误用。
func checkCounts(k, n int) error {
	if k < 1 {
		return fmt.Errorf("-k must be >= 1, got %d", k)
	}
	if n < 1 {
		return fmt.Errorf("-n must be >= 1, got %d", n)
	}
	return nil
}

func newRecommender(usersPath, simPath, pipelinePath, fields string) (*service.Recommender, error) {
	snap, err := dataset.LoadFiles(usersPath, simPath)
	if err != nil {
		return nil, err
	}
	rec, err := service.NewRecommender(snap)
	if err != nil {
		return nil, err
	}
	// 命令行不设上限，k / n 按原值使用
	rec.Config = settings.RecommendSettings{
		DefaultK: 10,
		DefaultN: 3,
		MaxK:     math.MaxInt,
		MaxN:     math.MaxInt,
	}
	if fields != "" {
		if rec.ExplainFields, err = explain.ParseFields(strings.Split(fields, ",")); err != nil {
			return nil, err
		}
	}
	if rec.PostProcess, err = config.LoadPipeline(pipelinePath); err != nil {
		return nil, err
	}
	return rec, nil
}

func render(w io.Writer, res *core.Recommendation) {
	if !res.Found {
		fmt.Fprintf(w, "用户 %s 没有相似度数据，无法推荐。\n", res.UserID)
		return
	}

	if p := res.Profile; p != nil {
		fmt.Fprintln(w, "== 用户画像 ==")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, f := range core.AllFields {
			fmt.Fprintf(tw, "%s\t%s\n", f, p.Value(f))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "== 推荐类别（K=%d, N=%d）==\n", res.TopK, res.TopN)
	if len(res.Categories) == 0 {
		fmt.Fprintln(w, "暂无推荐。")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Category\tNeighbor_Count\tProportion")
		for _, c := range res.Categories {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Category, c.NeighborCount, strconv.FormatFloat(c.Proportion, 'f', 3, 64))
		}
		tw.Flush()
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "== 相似邻居 ==")
	if res.Explanation.Empty() {
		fmt.Fprintln(w, "没有邻居。")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(res.Explanation.Fields)+1)
	for _, f := range res.Explanation.Fields {
		header = append(header, string(f))
	}
	header = append(header, "Similarity")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range res.Explanation.Rows {
		cells := append(append([]string(nil), row.Values...), strconv.FormatFloat(row.Similarity, 'f', 4, 64))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}
