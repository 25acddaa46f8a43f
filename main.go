package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"topup-client/api"
	"topup-client/biz/models"
	"topup-client/biz/services"
	"topup-client/cache"
	"topup-client/common"
	"topup-client/conf"
	"topup-client/dialog"
	"topup-client/returnserver"
)

func main() {
	// .env 便于本地开发注入令牌
	_ = godotenv.Load()

	// 初始化配置
	if err := conf.Init(); err != nil {
		panic(err)
	}

	// 初始化日志
	common.InitLogger()

	cfg := conf.GetConf()

	// 打开键值存储（文件，或配置了redis时走redis）
	store, err := cache.OpenStore()
	if err != nil {
		zap.L().Fatal("Failed to open cache store", zap.Error(err))
	}

	apiClient, err := api.New(cfg)
	if err != nil {
		zap.L().Fatal("Failed to create api client", zap.Error(err))
	}

	notifier := common.NewTerminalNotifier(os.Stdout)
	ctx := context.Background()

	var topup *services.TopUpService
	topup = services.NewTopUpService(apiClient, notifier,
		services.WithNavigator(openURL),
		// 整页重载的终端等价物：重新拉额度并重绘头部
		services.WithReloader(func() {
			topup.LoadQuota(ctx)
			printHeader(cfg, topup)
		}),
	)
	tokens := services.NewTokenService(apiClient, store, notifier)
	invite := services.NewInviteService(apiClient, notifier, cfg.Backend.SiteURL, nil)
	qrDialog := dialog.New(os.Stdin, os.Stdout)

	// 可选的本地回跳监听
	var rs *returnserver.Server
	if cfg.ReturnServer.Enabled {
		rs = returnserver.New(cfg, topup.HandleSettlement)
		rs.Start()
		zap.L().Info("Return server enabled",
			zap.String("url", returnserver.ReturnURL(cfg)))
	}

	// 优雅关闭
	shutdownManager := setupGracefulShutdown(rs)
	defer shutdownManager.Shutdown()

	// 挂载即拉一次额度
	topup.LoadQuota(ctx)
	printHeader(cfg, topup)

	runLoop(ctx, cfg, topup, tokens, invite, qrDialog, notifier)
}

// setupGracefulShutdown 设置优雅关闭
func setupGracefulShutdown(rs *returnserver.Server) *common.ShutdownManager {
	var shutdownManager *common.ShutdownManager
	if rs != nil {
		shutdownManager = common.NewShutdownManager(rs.Hertz())
	} else {
		shutdownManager = common.NewShutdownManager(nil)
	}

	if cache.IsAvailable() {
		shutdownManager.RegisterShutdownFunc(common.CreateShutdownFunc("redis", func() error {
			return cache.Close()
		}))
	}

	shutdownManager.WatchSignals()
	return shutdownManager
}

// printHeader 重绘额度头部
func printHeader(cfg *conf.Config, topup *services.TopUpService) {
	quota := common.FormatQuota(topup.Quota(), cfg.Quota.PerUnit, cfg.Quota.DisplayInCurrency)
	header := color.New(color.FgHiWhite, color.Bold)
	header.Println("\n══════════════════════════════")
	header.Printf("  当前额度: %s\n", quota)
	header.Println("══════════════════════════════")
}

func runLoop(
	ctx context.Context,
	cfg *conf.Config,
	topup *services.TopUpService,
	tokens *services.TokenService,
	invite *services.InviteService,
	qrDialog *dialog.QRDialog,
	notifier common.Notifier,
) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\n[1] 充值  [2] 邀请链接  [3] API密钥  [4] 刷新额度  [q] 退出")
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		switch strings.TrimSpace(line) {
		case "1":
			runTopUp(ctx, reader, topup, qrDialog, notifier)
		case "2":
			if link, err := invite.InviteLink(ctx); err == nil {
				fmt.Println(link)
			}
		case "3":
			showAPIKey(ctx, cfg, tokens, notifier)
		case "4":
			topup.LoadQuota(ctx)
			printHeader(cfg, topup)
		case "q", "quit", "exit":
			return
		}
	}
}

// runTopUp 走一遍充值流程：输入金额和渠道，提交，按分支处理
func runTopUp(
	ctx context.Context,
	reader *bufio.Reader,
	topup *services.TopUpService,
	qrDialog *dialog.QRDialog,
	notifier common.Notifier,
) {
	// 金额：空输入保留当前值，非数字重新输入
	for {
		fmt.Printf("充值金额($ 1-%d) [%d]: ", models.MaxTopUpAmount, topup.Amount())
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		raw := strings.TrimSpace(line)
		if raw == "" {
			break
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			notifier.Error("请输入数字金额")
			continue
		}
		if n == 0 {
			topup.ClearAmount()
		} else {
			topup.SetAmount(n)
		}
		break
	}

	// 渠道
	fmt.Printf("支付渠道 [1]微信 [2]支付宝 [%s]: ", topup.Provider().Label())
	line, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	switch strings.TrimSpace(line) {
	case "1":
		topup.SetProvider(models.ProviderWxPay)
	case "2":
		topup.SetProvider(models.ProviderAlipay)
	}

	topup.Submit(ctx)

	// 扫码分支：展示二维码等用户声明结果
	if payload, amount, ok := topup.QRPending(); ok {
		switch qrDialog.Present(payload, amount) {
		case dialog.OutcomeConfirmed:
			topup.ConfirmPaid()
		default:
			topup.CancelQR()
		}
		return
	}

	// 跳转分支：支付页已交给浏览器
	if topup.State() == services.StateRedirecting {
		fmt.Print("支付页面已在浏览器打开，完成支付后按回车刷新额度...")
		_, _ = reader.ReadString('\n')
		topup.Resume()
		topup.LoadQuota(ctx)
	}
}

// showAPIKey 展示首个API密钥（以及配置了聊天入口时的深链）
func showAPIKey(ctx context.Context, cfg *conf.Config, tokens *services.TokenService, notifier common.Notifier) {
	key, err := tokens.FirstAPIKey(ctx)
	if err != nil {
		if common.IsTransportError(err) {
			notifier.Error("请求失败")
		}
		return
	}
	fmt.Println("sk-" + key)

	if cfg.Backend.ChatURL != "" {
		if link, err := tokens.ChatLink(ctx, cfg.Backend.ChatURL, cfg.Backend.SiteURL); err == nil {
			fmt.Println("聊天入口: " + link)
		}
	}
}

// openURL 用系统默认程序打开链接（浏览器或钱包深链）
func openURL(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}
