package entity

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// autoOrder is the serialized z-order of text entities.
const autoOrder = "auto"

var orderType = reflect.TypeOf(Order{})

// Order is a z-order value: an integer or the text "auto".
// The zero value is integer order 0.
type Order struct {
	n    int
	auto bool
}

// OrderOf returns the integer order n.
func OrderOf(n int) Order { return Order{n: n} }

// AutoOrder returns the "auto" order Gliffy uses for text.
func AutoOrder() Order { return Order{auto: true} }

// IsAuto reports whether o is "auto".
func (o Order) IsAuto() bool { return o.auto }

// Int returns the integer order and false for "auto".
func (o Order) Int() (int, bool) {
	if o.auto {
		return 0, false
	}
	return o.n, true
}

// Value returns the order as it appears in a fragment: an int or "auto".
func (o Order) Value() any {
	if o.auto {
		return autoOrder
	}
	return o.n
}

func (o Order) String() string {
	if o.auto {
		return autoOrder
	}
	return strconv.Itoa(o.n)
}

// MarshalJSON encodes the order as a number or "auto".
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value())
}

// UnmarshalJSON accepts a number or the string "auto".
func (o *Order) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != autoOrder {
			return &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: orderType}
		}
		*o = AutoOrder()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*o = OrderOf(n)
	return nil
}
