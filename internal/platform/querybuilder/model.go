package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModels renders one multi-row INSERT for models, which must all be
// structs (or pointers to structs) of the same type. Columns come from the
// `db` tags.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no rows", table)
	}

	var cols []string
	builder := InsertInto(table).Suffix(suffix)
	for i, model := range models {
		rowCols, vals, err := columnsAndValuesFromModel(model)
		if err != nil {
			return "", nil, fmt.Errorf("row %d: %w", i, err)
		}
		if cols == nil {
			cols = rowCols
			builder.Columns(cols...)
		}
		builder.Values(vals...)
	}
	return builder.ToSQL()
}

// ModelColumns lists the `db` columns of model in field order.
func ModelColumns(model any) ([]string, error) {
	cols, _, err := columnsAndValuesFromModel(model)
	return cols, err
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	var cols []string
	var vals []any
	appendStructColumns(value, &cols, &vals)
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

// appendStructColumns walks value's tagged fields. Untagged embedded
// structs contribute their own fields in place.
func appendStructColumns(value reflect.Value, cols *[]string, vals *[]any) {
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := strings.TrimSpace(field.Tag.Get("db"))
		if field.Anonymous && tag == "" && field.Type.Kind() == reflect.Struct {
			appendStructColumns(value.Field(i), cols, vals)
			continue
		}
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(tag, ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		*cols = append(*cols, col)
		*vals = append(*vals, value.Field(i).Interface())
	}
}
