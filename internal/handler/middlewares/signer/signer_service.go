package signer

// Signer подписывает и проверяет тела HTTP-сообщений общим ключом.
type Signer interface {
	Sign(data []byte) string
	Verify(data []byte, expectedHash string) bool
}
