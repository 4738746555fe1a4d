package initchecker

import (
	"reflect"

	"github.com/pkg/errors"
)

// Dependency именованная зависимость обработчика
type Dependency struct {
	Name  string
	Value interface{}
}

// Check ошибка с именем первой неинициализированной зависимости,
// интерфейс с nil указателем внутри тоже считается неинициализированным
func Check(deps ...Dependency) error {
	for _, dep := range deps {
		if isNil(dep.Value) {
			return errors.Errorf("зависимость %v не инициализирована", dep.Name)
		}
	}
	return nil
}

// MustCheck для инициализации при старте сервиса
func MustCheck(deps ...Dependency) {
	if err := Check(deps...); err != nil {
		panic(err.Error())
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
