package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// LineReader yields one input line per call and io.EOF once input ends.
// *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// Run reads lines until exit or end of input. Ctrl-C discards the current
// line, any other read failure ends the session.
func (s *Session) Run(ctx context.Context, reader LineReader, prompt string) error {
	for {
		line, err := reader.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if history, ok := reader.(interface{ AppendHistory(string) }); ok && line != "" {
			history.AppendHistory(line)
		}

		if s.HandleLine(ctx, line) {
			return nil
		}
	}
}

// StreamReader reads lines of any length from a plain stream, ignoring the
// prompt. A trailing line without a newline is still returned.
type StreamReader struct {
	reader *bufio.Reader
}

func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: bufio.NewReader(r)}
}

func (r *StreamReader) Prompt(string) (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// RunInteractive runs the session on the terminal with line editing and a
// persistent history file. An empty historyPath disables history.
func (s *Session) RunInteractive(ctx context.Context, prompt, historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				s.logger.Printf("reading history %s: %v", historyPath, err)
			}
			_ = f.Close()
		}

		defer func() {
			f, err := os.Create(historyPath)
			if err != nil {
				s.logger.Printf("writing history %s: %v", historyPath, err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	return s.Run(ctx, ln, prompt)
}
