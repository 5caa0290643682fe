package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/tennis-history/internal/usecase"
)

// MatchLog appends one line per accepted fuzzy match.
type MatchLog struct {
	mu   sync.Mutex
	path string
}

var _ usecase.FuzzyMatchLog = (*MatchLog)(nil)

func NewMatchLog(path string) *MatchLog {
	return &MatchLog{path: path}
}

func (l *MatchLog) Append(_ context.Context, rewrite usecase.KeyRewrite) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(rewrite.String())
	_ = buf.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return crerr.Wrapf(err, "create directory for %s", l.path)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return crerr.Wrapf(err, "open %s", l.path)
	}
	if _, err := f.Write(buf.B); err != nil {
		_ = f.Close()
		return crerr.Wrapf(err, "append %s", l.path)
	}
	return crerr.Wrapf(f.Close(), "close %s", l.path)
}
