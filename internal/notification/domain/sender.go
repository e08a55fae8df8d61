// Package domain 定义通知发送抽象
package domain

import "context"

// Sender 通知发送接口。发送失败只记录日志，
// 不参与任何业务事务的成败。
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
