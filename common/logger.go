package common

import (
	"context"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"topup-client/conf"
)

// InitLogger 初始化全局日志
// 根据环境选择编码与级别；配置了日志文件时经 lumberjack 滚动写入
func InitLogger() {
	cfg := conf.GetConf()

	env := cfg.Log.Environment
	if env == "" {
		env = "development"
	}

	// 解析日志级别
	var logLevel zapcore.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = zapcore.DebugLevel
	case "info":
		logLevel = zapcore.InfoLevel
	case "warn":
		logLevel = zapcore.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if env == "production" {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var encoder zapcore.Encoder
	if env == "production" && cfg.Log.Output == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	// 日志走标准错误，终端界面（提示、二维码）独占标准输出
	sink := zapcore.Lock(os.Stderr)
	ws := zapcore.WriteSyncer(sink)
	if cfg.Log.File != "" {
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		})
		ws = zapcore.NewMultiWriteSyncer(sink, fileSink)
	}

	core := zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(logLevel))
	logger := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(logger)

	// 设置 Hertz 日志级别
	var hzLevel hlog.Level
	switch logLevel {
	case zapcore.DebugLevel:
		hzLevel = hlog.LevelDebug
	case zapcore.InfoLevel:
		hzLevel = hlog.LevelInfo
	case zapcore.WarnLevel:
		hzLevel = hlog.LevelWarn
	case zapcore.ErrorLevel:
		hzLevel = hlog.LevelError
	default:
		hzLevel = hlog.LevelInfo
	}
	hlog.SetLevel(hzLevel)

	zap.L().Info("Logger initialized",
		zap.String("environment", env),
		zap.String("level", logLevel.String()),
		zap.String("output", cfg.Log.Output))
}

// RequestLogger 回跳服务的请求日志中间件
func RequestLogger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())
		method := string(c.Method())
		clientIP := c.ClientIP()

		zap.L().Info("Request started",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("client_ip", clientIP),
			zap.String("request_id", getRequestID(c)),
		)

		c.Next(ctx)

		latency := time.Since(start)
		statusCode := c.Response.StatusCode()

		logLevel := zapcore.InfoLevel
		if statusCode >= 500 {
			logLevel = zapcore.ErrorLevel
		} else if statusCode >= 400 {
			logLevel = zapcore.WarnLevel
		}

		zap.L().Check(logLevel, "Request completed").Write(
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", latency),
			zap.String("client_ip", clientIP),
			zap.String("request_id", getRequestID(c)),
		)
	}
}

// getRequestID 获取或生成请求ID（用于日志追踪）
func getRequestID(c *app.RequestContext) string {
	requestID := string(c.GetHeader("X-Request-ID"))
	if requestID != "" {
		return requestID
	}

	if id, ok := c.Get("request_id"); ok {
		if str, ok := id.(string); ok {
			return str
		}
	}

	requestID = NewRequestID()
	c.Set("request_id", requestID)
	return requestID
}

// NewRequestID 生成请求ID
func NewRequestID() string {
	return "REQ-" + uuid.NewString()
}
