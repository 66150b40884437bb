package valueobjects

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidCPF é o erro base de todas as falhas de validação de CPF
var ErrInvalidCPF = errors.New("invalid cpf")

// CPFErrorKind identifica o motivo pelo qual um CPF foi rejeitado
type CPFErrorKind string

const (
	CPFRequired       CPFErrorKind = "REQUIRED"
	CPFBadFormat      CPFErrorKind = "BAD_FORMAT"
	CPFWrongLength    CPFErrorKind = "WRONG_LENGTH"
	CPFRepeatedDigits CPFErrorKind = "REPEATED_DIGITS"
	CPFBadChecksum1   CPFErrorKind = "BAD_CHECKSUM_1"
	CPFBadChecksum2   CPFErrorKind = "BAD_CHECKSUM_2"
)

const cpfLength = 11

// Aceita "999.999.999-99" ou exatamente 11 dígitos
var cpfShape = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$|^\d{11}$`)

// CPFError descreve uma falha de validação de CPF
type CPFError struct {
	Kind CPFErrorKind
	// Digits é a quantidade de dígitos encontrada (relevante para WRONG_LENGTH)
	Digits int
}

func (e *CPFError) Error() string {
	if e.Kind == CPFWrongLength {
		return fmt.Sprintf("invalid cpf: %s (%d digits)", e.Kind, e.Digits)
	}
	return "invalid cpf: " + string(e.Kind)
}

// Is permite errors.Is(err, ErrInvalidCPF) para qualquer CPFError
func (e *CPFError) Is(target error) bool {
	return target == ErrInvalidCPF
}

// CPF é um value object com o CPF sempre no formato canônico DDD.DDD.DDD-DD
type CPF struct {
	value string
}

// NewCPF cria um CPF validado
func NewCPF(raw string) (CPF, error) {
	return ValidateCPF(raw)
}

// ValidateCPF valida o CPF (formato, tamanho, dígitos repetidos e dígitos verificadores)
// e retorna sua forma normalizada
func ValidateCPF(raw string) (CPF, error) {
	if raw == "" {
		return CPF{}, &CPFError{Kind: CPFRequired}
	}

	// O formato é checado contra a string original, não contra os dígitos
	if !cpfShape.MatchString(raw) {
		return CPF{}, &CPFError{Kind: CPFBadFormat}
	}

	digits := StripCPF(raw)
	if len(digits) != cpfLength {
		return CPF{}, &CPFError{Kind: CPFWrongLength, Digits: len(digits)}
	}

	if strings.Count(digits, digits[:1]) == cpfLength {
		return CPF{}, &CPFError{Kind: CPFRepeatedDigits}
	}

	if checkDigit(digits, 9) != digits[9]-'0' {
		return CPF{}, &CPFError{Kind: CPFBadChecksum1}
	}

	if checkDigit(digits, 10) != digits[10]-'0' {
		return CPF{}, &CPFError{Kind: CPFBadChecksum2}
	}

	return CPF{value: group(digits)}, nil
}

// checkDigit calcula o dígito verificador a partir dos n primeiros dígitos,
// com pesos de n+1 até 2
func checkDigit(digits string, n int) byte {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}

	remainder := (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}

	return byte(remainder)
}

// FormatCPF reagrupa os dígitos no formato DDD.DDD.DDD-DD sem validar.
// Com menos de 11 dígitos retorna apenas os dígitos.
func FormatCPF(raw string) string {
	digits := StripCPF(raw)
	if len(digits) < cpfLength {
		return digits
	}

	return group(digits[:cpfLength]) + digits[cpfLength:]
}

// StripCPF remove tudo que não for dígito
func StripCPF(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func group(d string) string {
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// CPFFromTrusted reidrata um CPF já persistido, sem revalidar
func CPFFromTrusted(stored string) CPF {
	return CPF{value: FormatCPF(stored)}
}

// String retorna o CPF formatado
func (c CPF) String() string {
	return c.value
}

// Digits retorna apenas os 11 dígitos
func (c CPF) Digits() string {
	return StripCPF(c.value)
}

// IsZero indica se o CPF não foi definido
func (c CPF) IsZero() bool {
	return c.value == ""
}
