package csvstore

import (
	"context"
	"encoding/csv"
	"io"
)

func (s *Store) LoadEventIDs(_ context.Context) ([]int64, error) {
	return readFile(s.path(eventIDsFile), func(src io.Reader) ([]int64, error) {
		var ids []int64
		err := readTable(src, []string{"id"}, func(r *rowReader) error {
			id := r.int64p("id")
			if r.err != nil {
				return r.err
			}
			if id != nil {
				ids = append(ids, *id)
			}
			return nil
		})
		return ids, err
	})
}

func (s *Store) SaveEventIDs(ctx context.Context, ids []int64) error {
	err := writeFileAtomic(s.path(eventIDsFile), func(w *csv.Writer) error {
		if err := w.Write([]string{"id"}); err != nil {
			return err
		}
		for _, id := range ids {
			if err := w.Write([]string{formatInt64(&id)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		s.logger.InfoContext(ctx, "event ids saved", "count", len(ids), "file", s.path(eventIDsFile))
	}
	return err
}
