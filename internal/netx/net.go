// Package netx holds small networking helpers shared by the HTTP client.
package netx

import (
	"io"
)

// ProgressReader wraps a reader and reports the percentage of the expected
// total consumed so far. The callback fires only when the integer percentage
// changes, so a large file produces at most 101 calls.
type ProgressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lastPct  int
	progress func(percent int)
}

// NewProgressReader wraps r. total must be the number of bytes the reader is
// expected to yield; progress may be nil.
func NewProgressReader(r io.Reader, total int64, progress func(percent int)) *ProgressReader {
	return &ProgressReader{r: r, total: total, lastPct: -1, progress: progress}
}

func (p *ProgressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *ProgressReader) report() {
	if p.progress == nil || p.total <= 0 {
		return
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if pct != p.lastPct {
		p.lastPct = pct
		p.progress(pct)
	}
}
