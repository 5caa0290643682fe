package csvstore

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Integer columns accept whole floats such as "12.0", which spreadsheet
// tools write back for numeric cells.

func formatInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseInt64(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, crerr.Newf("not an integer: %q", raw)
	}
	v := int64(f)
	return &v, nil
}

func parseInt(raw string) (*int, error) {
	v, err := parseInt64(raw)
	if err != nil || v == nil {
		return nil, err
	}
	out := int(*v)
	return &out, nil
}

func parseFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, crerr.Newf("not a number: %q", raw)
	}
	return &f, nil
}

// rowReader reads cells by column name so tables survive column reordering.
type rowReader struct {
	index map[string]int
	cells []string
	line  int
	err   error
}

func newRowReader(header []string) *rowReader {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	return &rowReader{index: index}
}

func (r *rowReader) has(column string) bool {
	_, ok := r.index[column]
	return ok
}

func (r *rowReader) require(columns ...string) error {
	for _, column := range columns {
		if !r.has(column) {
			return crerr.Newf("missing column %q", column)
		}
	}
	return nil
}

func (r *rowReader) reset(cells []string, line int) {
	r.cells = cells
	r.line = line
	r.err = nil
}

func (r *rowReader) str(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r *rowReader) fail(column string, err error) {
	if r.err == nil {
		r.err = crerr.Wrapf(err, "line %d column %s", r.line, column)
	}
}

func (r *rowReader) int64p(column string) *int64 {
	v, err := parseInt64(r.str(column))
	if err != nil {
		r.fail(column, err)
	}
	return v
}

func (r *rowReader) intp(column string) *int {
	v, err := parseInt(r.str(column))
	if err != nil {
		r.fail(column, err)
	}
	return v
}

func (r *rowReader) floatp(column string) *float64 {
	v, err := parseFloat(r.str(column))
	if err != nil {
		r.fail(column, err)
	}
	return v
}

// readTable checks the header for the required columns and streams every
// data row through fn.
func readTable(src io.Reader, required []string, fn func(r *rowReader) error) error {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return crerr.New("empty table")
	}
	if err != nil {
		return crerr.Wrap(err, "read header")
	}
	rows := newRowReader(header)
	if err := rows.require(required...); err != nil {
		return err
	}

	for line := 2; ; line++ {
		cells, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return crerr.Wrapf(err, "read line %d", line)
		}
		rows.reset(cells, line)
		if err := fn(rows); err != nil {
			return err
		}
	}
}
