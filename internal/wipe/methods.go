package wipe

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Mode определяет режим затирания
type Mode string

const (
	ModeZeros      Mode = "zeros"
	ModeRandom     Mode = "random"
	ModeSecureFlip Mode = "secureflip"
)

// Modes возвращает все поддерживаемые режимы в порядке вывода в --help
func Modes() []Mode {
	return []Mode{ModeZeros, ModeRandom, ModeSecureFlip}
}

// ParseMode проверяет корректность режима
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeZeros, ModeRandom, ModeSecureFlip:
		return m, nil
	default:
		return "", errors.WithHint(
			errors.Newf("unsupported wipe mode: %q", s),
			"use one of: zeros, random, secureflip")
	}
}

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	return string(m)
}

// DisplayName is used in console output.
func (m Mode) DisplayName() string {
	switch m {
	case ModeZeros:
		return "Zeros"
	case ModeRandom:
		return "Random"
	case ModeSecureFlip:
		return "SecureFlip"
	default:
		return string(m)
	}
}

// Pattern описывает заполнение одного прохода: константный байт или случайные данные
type Pattern struct {
	Random bool
	Byte   byte
}

// PatternFor возвращает паттерн для прохода pass (нумерация с 1)
func PatternFor(mode Mode, pass int) Pattern {
	switch mode {
	case ModeRandom:
		return Pattern{Random: true}
	case ModeSecureFlip:
		// нечётный проход -> 0x00, чётный -> 0xFF
		if pass%2 == 0 {
			return Pattern{Byte: 0xFF}
		}
		return Pattern{Byte: 0x00}
	default:
		return Pattern{Byte: 0x00}
	}
}

// Fill заполняет buf паттерном. Для случайного паттерна каждый вызов
// читает из entropy новые байты.
func (p Pattern) Fill(buf []byte, entropy io.Reader) error {
	if len(buf) == 0 {
		return nil
	}

	if !p.Random {
		for i := range buf {
			buf[i] = p.Byte
		}
		return nil
	}

	if entropy == nil {
		return errors.New("random pattern requires an entropy source")
	}
	if _, err := io.ReadFull(entropy, buf); err != nil {
		return errors.Wrap(err, "failed to read random data")
	}
	return nil
}

func (p Pattern) String() string {
	if p.Random {
		return "random"
	}
	return fmt.Sprintf("0x%02X", p.Byte)
}
