// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// PrefixField is the entry field rendered in front of the message.
const PrefixField = "prefix"

const defaultTimestampFormat = time.RFC3339

var baseTimestamp = time.Now()

type renderFunc func(...string) string

// ColorScheme holds the render functions used for each element of a line.
type ColorScheme struct {
	InfoLevel  renderFunc
	WarnLevel  renderFunc
	ErrorLevel renderFunc
	DebugLevel renderFunc
	TraceLevel renderFunc
	Prefix     renderFunc
	Timestamp  renderFunc
}

func badge(bg string) renderFunc {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "0"}).
		Render
}

func plain(strs ...string) string {
	return strings.Join(strs, " ")
}

var (
	defaultColorScheme = &ColorScheme{
		InfoLevel:  badge("8"),
		WarnLevel:  badge("11"),
		ErrorLevel: badge("9"),
		DebugLevel: badge("12"),
		TraceLevel: lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("15")).Render,
		Prefix:     lipgloss.NewStyle().Bold(true).Render,
		Timestamp:  lipgloss.NewStyle().Faint(true).Render,
	}
	plainColorScheme = &ColorScheme{
		InfoLevel:  plain,
		WarnLevel:  plain,
		ErrorLevel: plain,
		DebugLevel: plain,
		TraceLevel: plain,
		Prefix:     plain,
		Timestamp:  plain,
	}
)

// TextFormatter renders entries as a single human readable line.  When the
// output is a terminal (or ForceFormatting is set) each line starts with a
// colored level badge; otherwise it falls back to logfmt-style key=value
// pairs.
type TextFormatter struct {
	// Set to true to bypass checking for a TTY before outputting colors.
	ForceColors bool

	// Force disabling colors.
	DisableColors bool

	// Force formatted layout, even for non-TTY output.
	ForceFormatting bool

	// Disable timestamp logging.
	DisableTimestamp bool

	// Print the full timestamp instead of the seconds elapsed since start.
	FullTimestamp bool

	// Timestamp format to use for display when a full timestamp is printed.
	TimestampFormat string

	colorScheme *ColorScheme
	isTerminal  bool
	once        sync.Once
}

// SetColorScheme overrides the default color scheme.
func (f *TextFormatter) SetColorScheme(scheme *ColorScheme) {
	f.colorScheme = scheme
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}

	return false
}

func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	f.once.Do(func() {
		if entry.Logger != nil {
			f.isTerminal = isTerminal(entry.Logger.Out)
		}
	})

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == PrefixField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}

	if f.ForceFormatting || f.isTerminal {
		scheme := plainColorScheme
		if (f.ForceColors || f.isTerminal) && !f.DisableColors {
			scheme = defaultColorScheme
			if f.colorScheme != nil {
				scheme = f.colorScheme
			}
		}
		f.printFormatted(b, entry, keys, timestampFormat, scheme)
	} else {
		f.printPlain(b, entry, keys, timestampFormat)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *TextFormatter) printFormatted(b *bytes.Buffer, entry *logrus.Entry, keys []string, timestampFormat string, scheme *ColorScheme) {
	var render renderFunc
	var text string
	switch entry.Level {
	case logrus.InfoLevel:
		text, render = "i", scheme.InfoLevel
	case logrus.WarnLevel:
		text, render = "W", scheme.WarnLevel
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		text, render = "E", scheme.ErrorLevel
	case logrus.TraceLevel:
		text, render = "T", scheme.TraceLevel
	default:
		text, render = "D", scheme.DebugLevel
	}

	b.WriteString(render(" " + text + " "))

	if !f.DisableTimestamp {
		var ts string
		if f.FullTimestamp {
			ts = entry.Time.Format(timestampFormat)
		} else {
			ts = fmt.Sprintf("[%04d]", int(time.Since(baseTimestamp)/time.Second))
		}
		b.WriteString(" " + scheme.Timestamp(ts))
	}

	if prefix, ok := entry.Data[PrefixField]; ok {
		b.WriteString(" " + scheme.Prefix(fmt.Sprintf("%v:", prefix)))
	}

	b.WriteString(" " + entry.Message)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%+v", render(k), entry.Data[k])
	}
}

func (f *TextFormatter) printPlain(b *bytes.Buffer, entry *logrus.Entry, keys []string, timestampFormat string) {
	var pairs []string
	if !f.DisableTimestamp {
		pairs = append(pairs, "time="+quote(entry.Time.Format(timestampFormat)))
	}

	pairs = append(pairs, "level="+entry.Level.String())

	if prefix, ok := entry.Data[PrefixField]; ok {
		pairs = append(pairs, "step="+quote(fmt.Sprint(prefix)))
	}

	if entry.Message != "" {
		pairs = append(pairs, "msg="+quote(entry.Message))
	}

	for _, k := range keys {
		pairs = append(pairs, k+"="+quote(fmt.Sprint(entry.Data[k])))
	}

	b.WriteString(strings.Join(pairs, " "))
}

func quote(s string) string {
	if s == "" {
		return `""`
	}

	for _, ch := range s {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '/' || ch == '_' || ch == ':') {
			return fmt.Sprintf("%q", s)
		}
	}

	return s
}
