// 终端二维码渲染工具，调试扫码支付链接用
// 用法: go run tools/renderqr/main.go "weixin://wxpay/bizpayurl?pr=xxxx"
package main

import (
	"fmt"
	"os"

	"github.com/mdp/qrterminal/v3"

	"topup-client/biz/models"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("用法: renderqr <payurl>")
		os.Exit(1)
	}

	payurl := os.Args[1]
	action := models.ClassifyPayURL(payurl)
	if action.Kind == models.ActionRedirect {
		fmt.Println("提示: 这是一个跳转链接，正常流程不会展示二维码")
	}

	qrterminal.GenerateHalfBlock(payurl, qrterminal.L, os.Stdout)
}
