package ports

// Logger é o log estruturado da aplicação; args são pares chave/valor
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With retorna um logger que inclui args em todas as mensagens
	With(args ...any) Logger
}
