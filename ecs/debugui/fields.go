package debugui

import (
	"reflect"
	"sync"
)

type fieldInfo struct {
	name  string
	index int
	kind  reflect.Kind
}

// fieldCache memoizes the exported fields of component struct types.
var fieldCache sync.Map // reflect.Type -> []fieldInfo

func exportedFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			kind := f.Type.Kind()
			if kind == reflect.Ptr {
				kind = f.Type.Elem().Kind()
			}
			fields = append(fields, fieldInfo{name: f.Name, index: i, kind: kind})
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]fieldInfo)
}
