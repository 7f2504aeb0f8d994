package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/game"
)

// Server 组合快照容器、WebSocket Hub 和路由
//
// 构造时不启动任何后台 goroutine（限流器清理除外），Start 才开始监听。
type Server struct {
	holder  *SnapshotHolder
	hub     *Hub
	limiter *IPRateLimiter
	router  http.Handler
	httpSrv *http.Server
	cancel  context.CancelFunc
}

// NewServer 创建 API 服务
//
// 参数:
//
//	verbose - 是否输出请求日志
func NewServer(verbose bool) *Server {
	s := &Server{
		holder:  NewSnapshotHolder(),
		hub:     NewHub(),
		limiter: NewIPRateLimiter(DefaultRateLimitConfig),
	}
	s.router = NewRouter(RouterConfig{
		State:          s.holder,
		Hub:            s.hub,
		RateLimiter:    s.limiter,
		DisableLogging: !verbose,
	})
	return s
}

// Attach 订阅模拟的事件队列，事件计入指标并推送给 WebSocket 客户端
func (s *Server) Attach(bus *event.Bus) {
	bus.SubscribeAll(EventMetrics{})
	bus.SubscribeAll(s.hub)
}

// Publish 在模拟线程调用：保存快照、更新指标、推送给客户端
func (s *Server) Publish(snap game.Snapshot) {
	s.holder.Publish(snap)
	ObserveSnapshot(snap)
	s.hub.BroadcastSnapshot(snap)
}

// Holder 返回快照容器
func (s *Server) Holder() *SnapshotHolder { return s.holder }

// Router 返回 HTTP 处理器，用于 httptest
func (s *Server) Router() http.Handler { return s.router }

// Start 启动 Hub 并在后台监听 addr
//
// 返回监听错误通道；正常关闭时通道被关闭而不写入。
func (s *Server) Start(addr string) <-chan error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.hub.Run(ctx)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		log.Printf("[API] Listening on %s", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	return errCh
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	if s.cancel != nil {
		s.cancel()
	}
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
