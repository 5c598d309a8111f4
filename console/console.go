package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout    = "2006-01-02 15:04:05"
	endOfDayClock = "23:59:59"
)

var (
	ErrNoInput              = errors.New("no input")
	ErrMissingKey           = errors.New("stripe key must not be empty")
	ErrInvalidDate          = errors.New("cannot parse date")
	ErrInvalidCodeCount     = errors.New("cannot parse number of vouchers")
	ErrNonPositiveCodeCount = errors.New("number of codes must be more than zero")
)

// Console reads operator answers line by line and prints prompts and
// progress. Input is echoed by the terminal as typed.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func NewStdio() *Console {
	return New(os.Stdin, os.Stdout)
}

func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Prompt prints question on its own line and returns the next input line.
func (c *Console) Prompt(ctx context.Context, question string) (string, error) {
	c.Println(question)
	return c.ReadLine(ctx)
}

type line struct {
	text string
	err  error
}

// ReadLine returns the next input line without its line terminator. It
// gives up when ctx is done; the pending read is abandoned.
func (c *Console) ReadLine(ctx context.Context) (string, error) {

	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines := make(chan line, 1)
	go func() {
		if c.scanner.Scan() {
			lines <- line{text: c.scanner.Text()}
			return
		}
		err := c.scanner.Err()
		if err == nil {
			err = ErrNoInput
		}
		lines <- line{err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-lines:
		return l.text, l.err
	}
}

// ParseSecretKey trims s and rejects an empty key.
func ParseSecretKey(s string) (string, error) {
	key := strings.TrimSpace(s)
	if key == "" {
		return "", ErrMissingKey
	}
	return key, nil
}

// ParseExpiration reads a YYYY-MM-DD date and returns the last second of that
// day in the local time zone.
func ParseExpiration(s string) (time.Time, error) {
	expiresAt, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s)+" "+endOfDayClock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return expiresAt, nil
}

// ParseCodeCount reads a strictly positive 32-bit count.
func ParseCodeCount(s string) (int, error) {

	count, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidCodeCount, err)
	}

	if count <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNonPositiveCodeCount, count)
	}

	return int(count), nil
}
