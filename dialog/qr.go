package dialog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mdp/qrterminal/v3"
)

// Outcome 二维码确认对话框的两种用户结果
type Outcome int

const (
	// OutcomeCanceled 用户取消，不发任何请求
	OutcomeCanceled Outcome = iota
	// OutcomeConfirmed 用户声明已完成支付
	OutcomeConfirmed
)

// QRDialog 终端二维码确认对话框
// 纯展示加两个用户声明的结果，除自身开闭外不持有任何状态
type QRDialog struct {
	in  io.Reader
	out io.Writer
}

// New 创建对话框，读写默认接在标准输入输出上
func New(in io.Reader, out io.Writer) *QRDialog {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &QRDialog{in: in, out: out}
}

// Present 展示支付二维码和金额，阻塞等待用户给出结果。
// 输入 y 表示已完成支付，n（或EOF）表示取消。
func (d *QRDialog) Present(payload string, amount int) Outcome {
	title := color.New(color.FgYellow, color.Bold)
	title.Fprintf(d.out, "\n请使用手机扫码支付 $%d\n\n", amount)

	qrterminal.GenerateHalfBlock(payload, qrterminal.L, d.out)

	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, "完成支付后输入 y 确认，输入 n 取消。")

	reader := bufio.NewReader(d.in)
	for {
		fmt.Fprint(d.out, "已完成支付? [y/n]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return OutcomeCanceled
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "是":
			return OutcomeConfirmed
		case "n", "no", "否":
			return OutcomeCanceled
		}
	}
}
