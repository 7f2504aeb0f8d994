// headless 无窗口运行一局塔防，打印结果摘要
//
// 用法:
//
//	go run ./cmd/headless -level zigzag-challenge -waves 10 -auto
//	go run ./cmd/headless -towers "basic@100,200;sniper@400,200" -png final.png
//	go run ./cmd/headless -addr :8080 -realtime -auto   # 通过 /ws 观察
//
// 所有参数都可以用环境变量或 .env 文件设置（TD_LEVEL、TD_WAVES、TD_SEED、
// TD_TOWERS、TD_AUTO_BUILD、TD_API_ADDR、TD_PNG），命令行参数优先。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/decker502/vibedefense/internal/runner"
	"github.com/decker502/vibedefense/pkg/api"
	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/game"
	"github.com/decker502/vibedefense/pkg/render"
)

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("[Headless] Loaded environment from .env")
	}

	dataDir := flag.String("data", getEnvWithDefault("TD_DATA_DIR", "data"), "配置目录")
	level := flag.String("level", getEnvWithDefault("TD_LEVEL", "beginners-path"), "关卡 ID")
	waves := flag.Int("waves", getEnvInt("TD_WAVES", 5), "运行的波数，0 表示直到关卡结束")
	seed := flag.Int64("seed", int64(getEnvInt("TD_SEED", 1)), "随机种子")
	towers := flag.String("towers", os.Getenv("TD_TOWERS"), "放置脚本，如 basic@100,200;sniper@400,200")
	autoBuild := flag.Bool("auto", getEnvBool("TD_AUTO_BUILD", false), "每波前自动建造和升级")
	addr := flag.String("addr", os.Getenv("TD_API_ADDR"), "API 监听地址，为空则不启动")
	realtime := flag.Bool("realtime", getEnvBool("TD_REALTIME", false), "按真实时间推进")
	pngPath := flag.String("png", os.Getenv("TD_PNG"), "结束时把最后一帧写入 PNG")
	asJSON := flag.Bool("json", false, "以 JSON 输出摘要")
	verbose := flag.Bool("verbose", getEnvBool("TD_VERBOSE", false), "输出详细日志")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(options{
		dataDir:   *dataDir,
		level:     *level,
		waves:     *waves,
		seed:      *seed,
		towers:    *towers,
		autoBuild: *autoBuild,
		addr:      *addr,
		realtime:  *realtime,
		pngPath:   *pngPath,
		asJSON:    *asJSON,
		verbose:   *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "headless: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dataDir   string
	level     string
	waves     int
	seed      int64
	towers    string
	autoBuild bool
	addr      string
	realtime  bool
	pngPath   string
	asJSON    bool
	verbose   bool
}

func run(opts options) error {
	levels, err := config.LoadLevels(opts.dataDir + "/levels.yaml")
	if err != nil {
		return err
	}
	units, err := config.LoadUnits(opts.dataDir + "/units.yaml")
	if err != nil {
		return err
	}
	shop, err := config.LoadShop(opts.dataDir + "/shop.yaml")
	if err != nil {
		return err
	}
	orders, err := runner.ParseTowerScript(opts.towers)
	if err != nil {
		return err
	}

	sim, err := game.NewSimulation(game.Options{
		Levels:  levels,
		Units:   units,
		Shop:    shop,
		LevelID: opts.level,
		Seed:    opts.seed,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := runner.Config{
		Waves:     opts.waves,
		Towers:    orders,
		AutoBuild: opts.autoBuild,
		Realtime:  opts.realtime,
	}

	if opts.addr != "" {
		server := api.NewServer(opts.verbose)
		server.Attach(sim.Bus())
		server.Publish(sim.Snapshot())
		errCh := server.Start(opts.addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
		go func() {
			if err, ok := <-errCh; ok {
				fmt.Fprintf(os.Stderr, "headless: %v\n", err)
				stop()
			}
		}()
		cfg.Publish = server.Publish
		cfg.ObserveTick = api.RecordTick
		cfg.PublishEvery = 2
	}

	summary, runErr := runner.New(sim, cfg).Run(ctx)

	if opts.pngPath != "" {
		if err := render.SaveFramePNG(opts.pngPath, sim.Snapshot(), render.Overlay{}); err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		fmt.Println(summary)
	}
	return runErr
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
