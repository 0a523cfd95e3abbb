package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printMessage(out io.Writer, m models.ChatMessage) {
	ts := "--:--"
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.Local().Format(time.Kitchen)
	}
	sender := m.SenderName
	if sender == "" {
		sender = m.SenderID
	}
	fmt.Fprintf(out, "[%s] %s: %s  (%s)\n", ts, sender, m.Content, m.ID)
}
