package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	AssumeYes = "yes"
	AssumeNo  = "no"
)

// Confirm asks question on out and reads the answer from in. When assume is
// AssumeYes or AssumeNo the answer is taken from it without reading input.
// Only y, Y and yes count as consent. Cancelling ctx while waiting for the
// answer returns ctx.Err(); the pending read is abandoned.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, question, assume string) (bool, error) {
	switch assume {
	case AssumeYes:
		slog.Info("Assuming yes", "question", question)
		return true, nil
	case AssumeNo:
		slog.Info("Assuming no", "question", question)
		return false, nil
	}

	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	type reply struct {
		answer string
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		answer, err := bufio.NewReader(in).ReadString('\n')
		replies <- reply{answer, err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r = <-replies:
	}

	if r.err != nil && r.err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", r.err)
	}

	switch strings.TrimSpace(r.answer) {
	case "y", "Y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
