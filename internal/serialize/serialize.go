// Package serialize encodes and decodes runtime values to the JSON wire
// shape of spec section 6.3, built on jsoniter exactly as the teacher's
// internal/storage package ("var json = jsoniter.ConfigCompatibleWith...").
package serialize

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Wire is the tagged-union wire shape for a single value.Value, matching
// spec 6.3's field layout: a "kind" discriminator plus kind-specific fields.
type Wire struct {
	Kind string `json:"kind"`

	// Interval
	Numerator   string  `json:"numerator,omitempty"`
	Denominator string  `json:"denominator,omitempty"`
	Real        bool    `json:"real,omitempty"`
	RealValue   float64 `json:"realValue,omitempty"`
	Domain      string  `json:"domain,omitempty"`
	Steps       int64   `json:"steps,omitempty"`
	Label       string  `json:"label,omitempty"`
	Color       string  `json:"color,omitempty"`

	// String / Boolean
	Text string `json:"text,omitempty"`
	Bool bool   `json:"bool,omitempty"`

	// Array / Record
	Items []Wire          `json:"items,omitempty"`
	Keys  []string        `json:"keys,omitempty"`
	Values map[string]Wire `json:"values,omitempty"`
}

var domainNames = map[value.Domain]string{
	value.Linear:       "linear",
	value.Logarithmic:  "logarithmic",
	value.Cologarithmic: "cologarithmic",
}

var domainFromName = map[string]value.Domain{
	"linear":        value.Linear,
	"logarithmic":   value.Logarithmic,
	"cologarithmic": value.Cologarithmic,
}

// Encode converts a runtime Value into its JSON wire representation.
func Encode(v value.Value) (Wire, error) {
	switch t := v.(type) {
	case value.Interval:
		return encodeInterval(t), nil
	case value.StringVal:
		return Wire{Kind: "string", Text: string(t)}, nil
	case value.BoolVal:
		return Wire{Kind: "boolean", Bool: bool(t)}, nil
	case value.NoneVal:
		return Wire{Kind: "none"}, nil
	case value.Color:
		return Wire{Kind: "color", Text: t.Raw}, nil
	case value.ArrayVal:
		items := make([]Wire, len(t.Items))
		for i, it := range t.Items {
			w, err := Encode(it)
			if err != nil {
				return Wire{}, err
			}
			items[i] = w
		}
		return Wire{Kind: "array", Items: items}, nil
	case value.RecordVal:
		values := make(map[string]Wire, len(t.Keys))
		for _, k := range t.Keys {
			item, _ := t.Get(k)
			w, err := Encode(item)
			if err != nil {
				return Wire{}, err
			}
			values[k] = w
		}
		return Wire{Kind: "record", Keys: append([]string{}, t.Keys...), Values: values}, nil
	}
	return Wire{}, fmt.Errorf("serialize: cannot encode a %s", v.Kind())
}

func encodeInterval(iv value.Interval) Wire {
	w := Wire{Kind: "interval", Domain: domainNames[iv.Domain], Steps: iv.Steps, Label: iv.Label}
	if iv.Color != nil {
		w.Color = iv.Color.Raw
	}
	if iv.Real {
		w.Real = true
		w.RealValue = iv.RealValue
		return w
	}
	if r, ok := monzo.AsExactRatio(iv.Exact); ok {
		w.Numerator = r.Num().String()
		w.Denominator = r.Denom().String()
		return w
	}
	w.Real = true
	w.RealValue = iv.ValueOf()
	return w
}

// Decode converts a wire value back into a runtime Value, reconstructing
// intervals against the given prime table.
func Decode(primes *monzo.PrimeTable, w Wire) (value.Value, error) {
	switch w.Kind {
	case "interval":
		return decodeInterval(primes, w)
	case "string":
		return value.StringVal(w.Text), nil
	case "boolean":
		return value.BoolVal(w.Bool), nil
	case "none":
		return value.NoneVal{}, nil
	case "color":
		c, err := value.ParseColor(w.Text)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "array":
		items := make([]value.Value, len(w.Items))
		for i, it := range w.Items {
			v, err := Decode(primes, it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.ArrayVal{Items: items}, nil
	case "record":
		r := value.NewRecord()
		for _, k := range w.Keys {
			v, err := Decode(primes, w.Values[k])
			if err != nil {
				return nil, err
			}
			r.Set(k, v)
		}
		return r, nil
	}
	return nil, fmt.Errorf("serialize: unrecognized wire kind %q", w.Kind)
}

func decodeInterval(primes *monzo.PrimeTable, w Wire) (value.Interval, error) {
	domain := domainFromName[w.Domain]
	if w.Real {
		return value.Interval{Real: true, RealValue: w.RealValue, Domain: domain, Steps: w.Steps, Label: w.Label}, nil
	}
	var n, d int64
	if _, err := fmt.Sscan(w.Numerator, &n); err != nil {
		return value.Interval{}, fmt.Errorf("serialize: bad numerator %q: %w", w.Numerator, err)
	}
	if _, err := fmt.Sscan(w.Denominator, &d); err != nil {
		return value.Interval{}, fmt.Errorf("serialize: bad denominator %q: %w", w.Denominator, err)
	}
	m := monzo.FromRatio(primes, n, d)
	iv := value.NewExact(m, domain)
	iv.Steps = w.Steps
	iv.Label = w.Label
	return iv, nil
}

// Marshal encodes v straight to a JSON byte slice via jsoniter, the
// "stringify" stdlib builtin's host-native half.
func Marshal(v value.Value) ([]byte, error) {
	w, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Unmarshal parses JSON bytes back into a runtime Value, the "parse" stdlib
// builtin's host-native half.
func Unmarshal(primes *monzo.PrimeTable, data []byte) (value.Value, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return Decode(primes, w)
}
