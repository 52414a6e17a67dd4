package usecase

import "context"

// 外部決済ゲートウェイのチェックアウトセッション
type CheckoutSession struct {
	ID          string
	URL         string
	AmountTotal int64 // minor units
	Currency    string
}

type CreateCheckoutInput struct {
	ProductName string
	AmountMinor int64 // 総額（セント単位、切り捨て）
	SuccessURL  string
	CancelURL   string
}

// ゲートウェイ呼び出しの約束。実装は infra/gateway。
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, in CreateCheckoutInput) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (CheckoutSession, error)
}

// メール通知はfire-and-forget。失敗しても本処理は止めない。
type EmailPublisher interface {
	PublishEmail(ctx context.Context, to string, subject string, body string) error
}
