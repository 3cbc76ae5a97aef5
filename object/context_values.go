package object

import (
	"context"
	"io"
	"os"
)

type contextKey string

const stdoutKey = contextKey("monkey:stdout")

// WithStdout adds a writer to the context. Builtins that print, such as
// puts, write to it instead of os.Stdout.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey, w)
}

// Stdout returns the writer from the context, falling back to os.Stdout.
func Stdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}
