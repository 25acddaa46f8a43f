package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"topup-client/api"
	"topup-client/common"
)

type fakeAffBackend struct {
	mu    sync.Mutex
	calls int
	resp  *api.AffResponse
	err   error
}

func (f *fakeAffBackend) Aff(ctx context.Context) (*api.AffResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.resp, f.err
}

func affOK(code string) *api.AffResponse {
	return &api.AffResponse{Envelope: api.Envelope{Success: true}, Data: code}
}

// TestInviteLinkComposition 测试邀请链接的拼装和复制
func TestInviteLinkComposition(t *testing.T) {
	backend := &fakeAffBackend{resp: affOK("e4b1")}
	notifier := &recordingNotifier{}

	var copied []string
	s := NewInviteService(backend, notifier, "https://api.example.com", func(text string) error {
		copied = append(copied, text)
		return nil
	})

	link, err := s.InviteLink(context.Background())
	if err != nil {
		t.Fatalf("InviteLink: %v", err)
	}
	if link != "https://api.example.com/register?aff=e4b1" {
		t.Errorf("链接 = %q", link)
	}
	if len(copied) != 1 || copied[0] != link {
		t.Errorf("应复制整条链接, got %v", copied)
	}
	notice, ok := notifier.last()
	if !ok || notice.Kind != common.NoticeSuccess || notice.Text != "邀请链接已复制到剪贴板" {
		t.Errorf("应提示复制成功, got %+v", notice)
	}
}

// TestInviteLinkFetchOnce 测试推荐码整个会话只拉取一次
func TestInviteLinkFetchOnce(t *testing.T) {
	backend := &fakeAffBackend{resp: affOK("e4b1")}
	notifier := &recordingNotifier{}

	var copied []string
	s := NewInviteService(backend, notifier, "https://api.example.com", func(text string) error {
		copied = append(copied, text)
		return nil
	})

	first, _ := s.InviteLink(context.Background())
	second, _ := s.InviteLink(context.Background())

	if first != second {
		t.Errorf("两次链接应一致: %q vs %q", first, second)
	}
	if backend.calls != 1 {
		t.Errorf("推荐码应只拉取一次，实际 %d 次", backend.calls)
	}
	// 每次调用都复制一遍
	if len(copied) != 2 {
		t.Errorf("应复制两次, got %d", len(copied))
	}
}

// TestInviteLinkClipboardUnavailable 测试无剪贴板环境降级为直接展示
func TestInviteLinkClipboardUnavailable(t *testing.T) {
	backend := &fakeAffBackend{resp: affOK("e4b1")}
	notifier := &recordingNotifier{}
	s := NewInviteService(backend, notifier, "https://api.example.com", func(string) error {
		return errors.New("no display")
	})

	link, err := s.InviteLink(context.Background())
	if err != nil {
		t.Fatalf("复制失败不应作为错误返回: %v", err)
	}
	notice, ok := notifier.last()
	if !ok || notice.Kind != common.NoticeInfo || notice.Text != "邀请链接: "+link {
		t.Errorf("应把链接直接展示出来, got %+v", notice)
	}
}

// TestInviteLinkBusinessFailure 测试业务失败：展示消息且不缓存
func TestInviteLinkBusinessFailure(t *testing.T) {
	backend := &fakeAffBackend{
		resp: &api.AffResponse{Envelope: api.Envelope{Success: false, Message: "请先登录"}},
	}
	notifier := &recordingNotifier{}
	s := NewInviteService(backend, notifier, "https://api.example.com", func(string) error { return nil })

	_, err := s.InviteLink(context.Background())
	apiErr, ok := common.AsAPIError(err)
	if !ok || apiErr.Message != "请先登录" {
		t.Errorf("应返回携带服务端消息的APIError, got %v", err)
	}

	// 失败后恢复正常，重试应重新拉取
	backend.resp = affOK("后补")
	link, err := s.InviteLink(context.Background())
	if err != nil || link != "https://api.example.com/register?aff=后补" {
		t.Errorf("重试 = (%q, %v)", link, err)
	}
	if backend.calls != 2 {
		t.Errorf("失败不应缓存，应重试，实际 %d 次", backend.calls)
	}
}

// TestInviteLinkTransportFailure 测试传输失败静默返回
func TestInviteLinkTransportFailure(t *testing.T) {
	backend := &fakeAffBackend{err: common.NewTransportError("/api/user/aff", 0, errors.New("timeout"))}
	notifier := &recordingNotifier{}
	s := NewInviteService(backend, notifier, "https://api.example.com", func(string) error { return nil })

	if _, err := s.InviteLink(context.Background()); err == nil {
		t.Error("传输失败应返回错误")
	}
	if notifier.count() != 0 {
		t.Error("传输失败应静默，不展示提示")
	}
}
