// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package ninja

import (
	"io"
	"regexp"
	"strconv"
	"strings"
)

var statusLine = regexp.MustCompile(`^\[(\d+)/(\d+)\]`)

// progressWriter reports ninja's "[N/M] ..." status lines and passes all
// output through to out, if set.
type progressWriter struct {
	out        io.Writer
	onProgress func(current, total int)
	partial    string
}

func (pw *progressWriter) Write(b []byte) (int, error) {
	data := pw.partial + strings.ReplaceAll(string(b), "\r\n", "\n")
	lines := strings.Split(data, "\n")

	// The last element is an incomplete line, or empty.
	pw.partial = lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		m := statusLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		current, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		pw.onProgress(current, total)
	}

	if pw.out != nil {
		return pw.out.Write(b)
	}

	return len(b), nil
}
