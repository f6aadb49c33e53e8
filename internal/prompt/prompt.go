// Package prompt asks the user for a postal code on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

const DefaultMaxAttempts = 3

// ErrCancelled is returned on end of input or an empty answer.
var ErrCancelled = errors.New("postal code input cancelled")

type Prompter struct {
	in          *bufio.Scanner
	out         io.Writer
	maxAttempts int
	l           *logger.Logger
}

func New(in io.Reader, out io.Writer, maxAttempts int, l *logger.Logger) *Prompter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Prompter{
		in:          bufio.NewScanner(in),
		out:         out,
		maxAttempts: maxAttempts,
		l:           l,
	}
}

// Ask reads lines until one normalizes to a postal code. After the last
// failed attempt the normalization error is returned.
func (p *Prompter) Ask(ctx context.Context) (models.PostalCode, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprint(p.out, "郵便番号（例: 1000001）: ")

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read postal code: %w", err)
			}
			return "", ErrCancelled
		}

		input := strings.TrimSpace(p.in.Text())
		if input == "" {
			return "", ErrCancelled
		}

		code, err := models.NormalizePostalCode(input)
		if err == nil {
			return code, nil
		}

		lastErr = err
		p.l.Warning("invalid postal code entered", map[string]any{"input": input, "attempt": attempt})
		fmt.Fprintln(p.out, "無効な郵便番号です。7桁の数字を入力してください。例: 1000001")
	}

	return "", fmt.Errorf("no valid postal code after %d attempts: %w", p.maxAttempts, lastErr)
}
