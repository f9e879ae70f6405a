package envconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-reflect"
)

// TagName is the struct tag that names the environment variable of a field.
const TagName = "env"

// ErrNotStructPointer is returned when Bind receives anything but a non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("envconf: destination must be a non-nil pointer to a struct")

// LookupFunc looks up an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(string) (string, bool)

// FieldError describes a variable that could not be assigned to its field.
type FieldError struct {
	Variable string
	Field    string
	Err      error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("envconf: %s (field %s): %v", e.Variable, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type binding struct {
	index    int
	field    string
	variable string
}

var (
	// plansMutex guards plans.
	plansMutex = sync.RWMutex{}

	// plans caches the tagged fields of each struct type.
	plans = map[reflect.Type][]binding{}
)

// Bind assigns the values of the tagged environment variables to the fields of dst.
// Unset variables leave their field untouched, so defaults can be set beforehand.
// Supported field types are string, bool, signed and unsigned integers, floats and time.Duration.
func Bind(dst any, lookup LookupFunc) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	sv := rv.Elem()

	for _, b := range getOrCreatePlan(sv) {
		raw, ok := lookup(b.variable)
		if !ok {
			continue
		}
		if err := assign(sv.Field(b.index), strings.TrimSpace(raw)); err != nil {
			return &FieldError{Variable: b.variable, Field: b.field, Err: err}
		}
	}
	return nil
}

// Variables returns the environment variable names declared by the struct pointed to by dst.
func Variables(dst any) []string {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	plan := getOrCreatePlan(rv.Elem())
	names := make([]string, len(plan))
	for i, b := range plan {
		names[i] = b.variable
	}
	return names
}

// getOrCreatePlan returns the cached bindings for the struct type of sv.
func getOrCreatePlan(sv reflect.Value) []binding {
	st := sv.Type()

	plansMutex.RLock()
	if plan, ok := plans[st]; ok {
		plansMutex.RUnlock()
		return plan
	}

	plansMutex.RUnlock()
	plansMutex.Lock()
	defer plansMutex.Unlock()
	if plan, ok := plans[st]; ok {
		return plan
	}

	var plan []binding
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		variable := f.Tag.Get(TagName)
		if variable == "" || variable == "-" || !sv.Field(i).CanSet() {
			continue
		}
		plan = append(plan, binding{index: i, field: f.Name, variable: variable})
	}
	plans[st] = plan
	return plan
}

func assign(field reflect.Value, raw string) error {
	if d, ok := field.Addr().Interface().(*time.Duration); ok {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(v)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
