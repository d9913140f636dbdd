package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/strideworks/stride-backend/internal/logger"
)

// Decoder parses the receiving side of the wire format. Data lines that fail
// to parse are skipped, not fatal: a frame split across network reads shows
// up as garbage once and the stream keeps going. Skips are counted so a
// systemic encoding bug is visible to operators.
type Decoder struct {
	br      *bufio.Reader
	log     *logger.Logger
	skipped int
}

func NewDecoder(r io.Reader, log *logger.Logger) *Decoder {
	return &Decoder{br: bufio.NewReader(r), log: log.With("component", "StreamDecoder")}
}

// Next returns the next well-formed frame, or io.EOF when the connection
// closes.
func (d *Decoder) Next() (*Frame, error) {
	for {
		line, err := d.br.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) == "" {
				return nil, io.EOF
			}
			if err != io.EOF {
				return nil, err
			}
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}
		if !strings.HasPrefix(trimmed, "data:") {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(trimmed, "data:"))
		var frame Frame
		if jerr := json.Unmarshal([]byte(payload), &frame); jerr != nil || frame.Type == "" {
			d.skipped++
			d.log.Warn("Skipping malformed stream frame", "skipped_total", d.skipped)
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}
		return &frame, nil
	}
}

// Skipped reports how many malformed frames were discarded so far.
func (d *Decoder) Skipped() int { return d.skipped }
