package validate_booking

import (
	"context"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// CredentialProvider источник текущего access token пользователя
type CredentialProvider interface {
	Credential(ctx context.Context) (domain.Credential, bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
