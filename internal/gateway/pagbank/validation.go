package pagbank

import (
	"fmt"
	"regexp"
	"strconv"
)

var nonDigits = regexp.MustCompile(`[^\d]`)

// SanitizeDocument strips everything but digits from a CPF.
func SanitizeDocument(doc string) string {
	return nonDigits.ReplaceAllString(doc, "")
}

// ValidateCPF checks length and both check digits of a Brazilian CPF.
// Accepts formatted input ("123.456.789-09").
func ValidateCPF(doc string) error {
	cpf := SanitizeDocument(doc)
	if len(cpf) != 11 {
		return fmt.Errorf("CPF deve conter 11 dígitos (recebido %d)", len(cpf))
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("CPF inválido")
	}

	if digit(cpf, 9) != cpfCheckDigit(cpf, 9) || digit(cpf, 10) != cpfCheckDigit(cpf, 10) {
		return fmt.Errorf("CPF inválido: dígito verificador não confere")
	}
	return nil
}

func digit(cpf string, pos int) int {
	return int(cpf[pos] - '0')
}

// cpfCheckDigit computes the check digit at position 9 or 10 from the
// preceding digits using the standard mod-11 weighting.
func cpfCheckDigit(cpf string, pos int) int {
	sum := 0
	weight := pos + 1
	for i := 0; i < pos; i++ {
		sum += digit(cpf, i) * (weight - i)
	}
	rest := sum * 10 % 11
	if rest == 10 {
		rest = 0
	}
	return rest
}

// ValidatePhone validates a Brazilian phone: DDD between 11 and 99 followed
// by an 8 or 9 digit number. Accepts formatted input ("(11) 99999-8888").
func ValidatePhone(phone string) error {
	num := nonDigits.ReplaceAllString(phone, "")

	// Tolerate a leading country code.
	if len(num) >= 12 && num[:2] == "55" {
		num = num[2:]
	}

	if len(num) != 10 && len(num) != 11 {
		return fmt.Errorf("telefone deve ter DDD + 8 ou 9 dígitos (recebido %d dígitos)", len(num))
	}

	ddd, err := strconv.Atoi(num[:2])
	if err != nil || ddd < 11 || ddd > 99 {
		return fmt.Errorf("DDD inválido: deve estar entre 11 e 99")
	}
	return nil
}

// ParsePhone splits a sanitized Brazilian phone into the gateway's
// structured form. Call ValidatePhone first.
func ParsePhone(phone string) Phone {
	num := nonDigits.ReplaceAllString(phone, "")
	if len(num) >= 12 && num[:2] == "55" {
		num = num[2:]
	}
	if len(num) < 2 {
		return Phone{Country: "55"}
	}
	return Phone{
		Country: "55",
		Area:    num[:2],
		Number:  num[2:],
	}
}
