package handlers

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"

	"topup-client/biz/services"
	"topup-client/common"
)

// 回跳落地页。支付渠道在浏览器里完成支付后跳回这里，
// 页面给用户一个明确的结果，同时把结算信号递给充值流程。
const returnPage = `<!DOCTYPE html>
<html lang="zh">
<head><meta charset="utf-8"><title>充值结果</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 80px;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`

// PaymentReturn 构造支付回跳处理器
// onSettlement 在每次回跳时收到 trade_status 原文
func PaymentReturn(onSettlement func(tradeStatus string)) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		tradeStatus := c.Query("trade_status")
		common.RecordSettlementReturn(tradeStatus)

		zap.L().Info("Payment provider return",
			zap.String("trade_status", tradeStatus),
			zap.String("client_ip", c.ClientIP()))

		if onSettlement != nil {
			onSettlement(tradeStatus)
		}

		var page string
		if tradeStatus == services.TradeStatusSuccess {
			page = fmt.Sprintf(returnPage, "充值成功！", "额度稍后到账，可以回到终端查看。")
		} else {
			page = fmt.Sprintf(returnPage, "支付未完成", "如已扣款请联系管理员，或回到终端重试。")
		}

		c.Response.Header.SetContentType("text/html; charset=utf-8")
		c.SetStatusCode(consts.StatusOK)
		c.Write([]byte(page))
	}
}
