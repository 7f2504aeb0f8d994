// Package api 以 HTTP/WebSocket 形式只读地暴露模拟状态
//
// 路由：
//   - GET /health          存活检查
//   - GET /api/state       最近一帧的完整快照（JSON）
//   - GET /api/summary     HUD 摘要
//   - GET /metrics         Prometheus 指标
//   - GET /ws              快照与事件推送（需要 Hub）
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig 构造路由所需的依赖
type RouterConfig struct {
	// State 快照来源（必填）
	State StateSource

	// Hub 可选；为 nil 时不注册 /ws
	Hub *Hub

	// RateLimiter 可选的限流器；为 nil 时按 RateLimitConfig 新建
	RateLimiter *IPRateLimiter

	// RateLimitConfig 仅在 RateLimiter 为 nil 时使用，都为 nil 时用默认值
	RateLimitConfig *RateLimitConfig

	// CORSOrigins 允许的跨域来源，nil 时只允许本机
	CORSOrigins []string

	// DisableLogging 关闭请求日志中间件
	DisableLogging bool
}

// NewRouter 构造带中间件的路由
//
// 不监听端口；RateLimiter 为 nil 时新建的限流器会启动一个清理 goroutine。
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	limiter := cfg.RateLimiter
	if limiter == nil {
		limitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			limitCfg = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(limitCfg)
	}
	r.Use(limiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &routerHandlers{state: cfg.State}

	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/summary", h.handleGetSummary)
	})

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.ServeHTTP)
	}

	return r
}
