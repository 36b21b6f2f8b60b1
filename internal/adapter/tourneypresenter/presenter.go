package tourneypresenter

import (
	"fmt"
	"io"
	"strings"
)

// Presenter delivers formatted messages without coupling the command layer to an output.
type Presenter struct {
	sendMessage func(message string) error
}

func NewPresenter(sendMessage func(message string) error) *Presenter {
	return &Presenter{sendMessage: sendMessage}
}

// NewWriterPresenter writes each message as one line to w.
func NewWriterPresenter(w io.Writer) *Presenter {
	return NewPresenter(func(message string) error {
		_, err := fmt.Fprintln(w, message)
		return err
	})
}

// Show sends message when it has visible content.
func (p *Presenter) Show(message string) error {
	if p == nil || p.sendMessage == nil {
		return nil
	}
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(message)
}

// Prompt writes text without a trailing newline.
func Prompt(w io.Writer, text string) {
	_, _ = io.WriteString(w, text)
}
