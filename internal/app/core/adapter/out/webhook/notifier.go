package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
)

const userAgent = "kic-ledger/1.0"

// Notifier 以 HTTP Webhook 派送通知事件
// best-effort: 呼叫端在 commit 後非同步呼叫，失敗只記 Log 不回滾
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier 建立 Webhook 通知器
// timeout 限制單次派送時間，避免慢速的接收端拖住派送 goroutine
func NewNotifier(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify 把事件以 JSON POST 到設定的 URL
func (n *Notifier) Notify(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
}

// NopNotifier 不做任何事，未設定 Webhook URL 時使用
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, event domain.Event) error {
	return nil
}

var (
	_ usecase.Notifier = (*Notifier)(nil)
	_ usecase.Notifier = NopNotifier{}
)
