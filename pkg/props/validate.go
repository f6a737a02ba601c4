package props

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cast"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// Type is the expected type of a property value.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
	// TypeHex is a string holding a "#rrggbb" color, or the literal "none".
	TypeHex
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeHex:
		return "hex"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// DefaultValues holds the fallback value registered for each type.
// Validators copy it on creation; edit [Validator.Defaults] to change one.
var DefaultValues = map[Type]any{
	TypeString: "",
	TypeInt:    0,
	TypeFloat:  0.0,
	TypeBool:   false,
	TypeHex:    "#000000",
}

// NoColor is the hex value Gliffy reads as "no fill".
const NoColor = "none"

const hexDigits = 6

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Field names a property key and the type its value must have.
type Field struct {
	Key  string
	Type Type
}

// Validator checks and coerces property values.
type Validator struct {
	// Logger receives one warning per replaced value. Defaults to log.Default().
	Logger *log.Logger
	// Defaults maps each type to its replacement value.
	Defaults map[Type]any
}

// NewValidator returns a validator logging to logger (log.Default() if nil).
func NewValidator(logger *log.Logger) *Validator {
	defaults := make(map[Type]any, len(DefaultValues))
	for t, v := range DefaultValues {
		defaults[t] = v
	}
	return &Validator{Logger: logger, Defaults: defaults}
}

// CheckAndCoerce validates the values of keys in m against t, in place.
//
// Keys missing from m are skipped. A value that already has type t is kept.
// Otherwise, when coerce is set, a best-effort conversion is tried. If that
// fails, or coerce is false, the value is replaced with the registered default
// for t and a VALUE_COERCION diagnostic is logged and returned.
func (v *Validator) CheckAndCoerce(m *Map, keys []string, t Type, coerce bool) []error {
	var diags []error
	for _, key := range keys {
		val, ok := m.Get(key)
		if !ok || matches(t, val) {
			continue
		}
		if coerce {
			if out, err := coerceValue(t, val); err == nil {
				m.Set(key, out)
				continue
			}
		}
		def := v.defaultFor(t)
		m.Set(key, def)
		diag := errors.New(errors.ErrCodeValueCoercion,
			"property %q: cannot use %v (%T) as %s, using default %v", key, val, val, t, def)
		v.logger().Warn("property value replaced with default",
			"key", key, "value", val, "type", t, "default", def)
		diags = append(diags, diag)
	}
	return diags
}

// Check runs [Validator.CheckAndCoerce] for every field.
func (v *Validator) Check(m *Map, fields []Field, coerce bool) []error {
	var diags []error
	for _, f := range fields {
		diags = append(diags, v.CheckAndCoerce(m, []string{f.Key}, f.Type, coerce)...)
	}
	return diags
}

func (v *Validator) defaultFor(t Type) any {
	if d, ok := v.Defaults[t]; ok {
		return d
	}
	return DefaultValues[t]
}

func (v *Validator) logger() *log.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return log.Default()
}

func matches(t Type, val any) bool {
	switch t {
	case TypeString:
		_, ok := val.(string)
		return ok
	case TypeInt:
		_, ok := val.(int)
		return ok
	case TypeFloat:
		_, ok := val.(float64)
		return ok
	case TypeBool:
		_, ok := val.(bool)
		return ok
	case TypeHex:
		s, ok := val.(string)
		return ok && (s == NoColor || hexColorRe.MatchString(s))
	default:
		return false
	}
}

func coerceValue(t Type, val any) (any, error) {
	switch t {
	case TypeString:
		return cast.ToStringE(val)
	case TypeInt:
		if s, ok := val.(string); ok {
			// decimal only; cast reads a leading zero as octal
			return strconv.Atoi(strings.TrimSpace(s))
		}
		return cast.ToIntE(val)
	case TypeFloat:
		return cast.ToFloat64E(val)
	case TypeBool:
		if s, ok := val.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, fmt.Errorf("not a boolean: %q", s)
		}
		return cast.ToBoolE(val)
	case TypeHex:
		return coerceHex(val)
	default:
		return nil, fmt.Errorf("unknown type %v", t)
	}
}

// coerceHex normalizes val to "#" followed by exactly six hex digits,
// truncating longer input and right-padding shorter input with zeros.
func coerceHex(val any) (any, error) {
	s, err := cast.ToStringE(val)
	if err != nil {
		return nil, err
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if strings.EqualFold(s, NoColor) {
		return NoColor, nil
	}
	if s == "" {
		return nil, fmt.Errorf("empty color")
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return nil, fmt.Errorf("not a hex color: %q", s)
		}
	}
	if len(s) > hexDigits {
		s = s[:hexDigits]
	}
	return "#" + s + strings.Repeat("0", hexDigits-len(s)), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
