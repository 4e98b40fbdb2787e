package usecase

import "context"

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// TokenManager выпускает и проверяет токены доступа.
type TokenManager interface {
	Issue(userID int64, email string) (string, error)
	Parse(token string) (int64, error)
}

// PasswordHasher скрывает конкретный алгоритм хэширования паролей.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
