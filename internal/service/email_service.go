package service

import "context"

type EmailService interface {
	SendActivation(ctx context.Context, to, name, activateURL string) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}
