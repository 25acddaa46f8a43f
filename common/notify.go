package common

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// NoticeKind 提示类型
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeInfo
	NoticeError
)

// Notice 一条瞬时提示，只在展示期间存在，没有持久身份
type Notice struct {
	Kind NoticeKind
	Text string
}

// Notifier 向用户展示瞬时提示。实现必须是即发即忘的：
// 不返回错误，不阻塞调用方的业务流程。
type Notifier interface {
	Success(text string)
	Info(text string)
	Error(text string)
}

// TerminalNotifier 终端提示实现，彩色输出
type TerminalNotifier struct {
	mu  sync.Mutex
	out io.Writer

	successC *color.Color
	infoC    *color.Color
	errorC   *color.Color
}

// NewTerminalNotifier 创建终端提示器；out 为 nil 时写到标准输出
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalNotifier{
		out:      out,
		successC: color.New(color.FgGreen, color.Bold),
		infoC:    color.New(color.FgCyan),
		errorC:   color.New(color.FgRed, color.Bold),
	}
}

func (n *TerminalNotifier) Success(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successC.Fprintf(n.out, "✔ %s\n", text)
}

func (n *TerminalNotifier) Info(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infoC.Fprintf(n.out, "ℹ %s\n", text)
}

func (n *TerminalNotifier) Error(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errorC.Fprintf(n.out, "✘ %s\n", text)
}
