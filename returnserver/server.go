package returnserver

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"go.uber.org/zap"

	"topup-client/biz/handlers"
	"topup-client/common"
	"topup-client/conf"
)

// Server 本地回跳监听
// 支付渠道完成后浏览器跳回 /return，这里接住 trade_status 并转交充值流程；
// 顺带暴露 /health 和 /metrics
type Server struct {
	h *server.Hertz
}

// New 创建回跳服务
func New(cfg *conf.Config, onSettlement func(tradeStatus string)) *Server {
	h := server.Default(
		server.WithHostPorts(cfg.ReturnServer.Host + ":" + cfg.ReturnServer.Port),
	)

	// 回跳来自支付渠道的页面，放开跨域
	h.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h.Use(common.MetricsMiddleware())
	h.Use(common.RequestLogger())

	h.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"message": "pong"})
	})
	h.GET("/health", handlers.HealthCheck)
	h.GET("/metrics", common.MetricsHandler)
	h.GET("/return", handlers.PaymentReturn(onSettlement))

	return &Server{h: h}
}

// Hertz 暴露底层服务器（供关闭管理器使用）
func (s *Server) Hertz() *server.Hertz {
	return s.h
}

// ReturnURL 给支付渠道用的回跳地址
func ReturnURL(cfg *conf.Config) string {
	return "http://" + cfg.ReturnServer.Host + ":" + cfg.ReturnServer.Port + "/return"
}

// Start 在后台启动监听
func (s *Server) Start() {
	go func() {
		zap.L().Info("Return server starting")
		s.h.Spin()
		zap.L().Info("Return server stopped")
	}()
}
