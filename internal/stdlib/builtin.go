// Package stdlib wires the two layers of spec section 2.6's "mostly the
// language itself" standard library: Go-native builtins where host
// arithmetic or I/O is required (this file), and a SonicWeave-source prelude
// for everything expressible in the language itself (prelude.go), evaluated
// once at interpreter construction the same way the teacher's
// internal/project seeds a default project on startup.
package stdlib

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/sonicweave-lang/sonicweave/internal/context"
	"github.com/sonicweave-lang/sonicweave/internal/eval"
	"github.com/sonicweave-lang/sonicweave/internal/monzo"
	"github.com/sonicweave-lang/sonicweave/internal/parser"
	"github.com/sonicweave-lang/sonicweave/internal/playback"
	"github.com/sonicweave-lang/sonicweave/internal/render"
	"github.com/sonicweave-lang/sonicweave/internal/serialize"
	"github.com/sonicweave-lang/sonicweave/internal/value"
)

// Install populates a fresh global environment with the Go-native builtins
// and the SonicWeave-source prelude, returning the env ready for user code.
func Install(ctx *context.Context) (*eval.Env, *eval.Interp, error) {
	env := eval.NewEnv()
	in := eval.New(ctx)

	for name, fn := range builtins(in) {
		f := &value.Function{Name: name, Builtin: fn}
		if err := env.Define(name, f, true); err != nil {
			return nil, nil, err
		}
	}

	prog, err := parser.Parse(preludeSource)
	if err != nil {
		return nil, nil, fmt.Errorf("stdlib: parsing prelude: %w", err)
	}
	if err := in.RunProgram(prog, env); err != nil {
		return nil, nil, fmt.Errorf("stdlib: running prelude: %w", err)
	}
	return env, in, nil
}

func builtins(in *eval.Interp) map[string]func([]eval.Value) (eval.Value, error) {
	return map[string]func([]eval.Value) (eval.Value, error){
		"mtof":            mtof(in),
		"ftom":            ftom(in),
		"simplify":        simplify,
		"label":           labelBuiltin,
		"color":           colorBuiltin,
		"sort":            sortBuiltin,
		"reverse":         reverseBuiltin,
		"repeat":          repeatBuiltin,
		"length":          lengthBuiltin(in),
		"stringify":       stringifyBuiltin,
		"parseJSON":       parseJSONBuiltin(in),
		"interpolateColor": interpolateColorBuiltin,
		"abs":             unaryRealFn(math.Abs, in),
		"floor":           unaryRealFn(math.Floor, in),
		"ceil":            unaryRealFn(math.Ceil, in),
		"round":           unaryRealFn(math.Round, in),
		"play":            playBuiltin(in),
		"sendMidi":        sendMidiBuiltin(in),
		"render":          renderBuiltin(in),
	}
}

func wantInterval(v eval.Value, who string) (value.Interval, error) {
	iv, ok := v.(value.Interval)
	if !ok {
		return value.Interval{}, fmt.Errorf("%s: expected an interval, got %s", who, v.Kind())
	}
	return iv, nil
}

func wantArray(v eval.Value, who string) (value.ArrayVal, error) {
	arr, ok := v.(value.ArrayVal)
	if !ok {
		return value.ArrayVal{}, fmt.Errorf("%s: expected an array, got %s", who, v.Kind())
	}
	return arr, nil
}

func scaleOf(items []eval.Value) ([]value.Interval, error) {
	out := make([]value.Interval, len(items))
	for i, v := range items {
		iv, err := wantInterval(v, "scale")
		if err != nil {
			return nil, err
		}
		out[i] = iv
	}
	return out, nil
}

// mtof converts a MIDI note number to a frequency Interval, A440-tuned:
// spec's "mostly the language itself" exception for floating-point math.
func mtof(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("mtof: expected 1 argument")
		}
		iv, err := wantInterval(args[0], "mtof")
		if err != nil {
			return nil, err
		}
		note := iv.ValueOf()
		hz := 440 * math.Pow(2, (note-69)/12)
		m := monzo.FromFloat(in.Ctx.Primes, hz)
		m.Time = minusOne
		return value.NewExact(m, value.Linear), nil
	}
}

func ftom(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("ftom: expected 1 argument")
		}
		iv, err := wantInterval(args[0], "ftom")
		if err != nil {
			return nil, err
		}
		hz := iv.ValueOf()
		note := 69 + 12*math.Log2(hz/440)
		return value.NewReal(note, nil, value.Linear), nil
	}
}

// simplify discards an interval's accumulated Node, label and color so
// toString falls back to a plain ratio printout (spec's "simplify" stdlib
// entry, used after a chain of comma nudges); the monzo is left unchanged.
func simplify(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("simplify: expected 1 argument")
	}
	iv, err := wantInterval(args[0], "simplify")
	if err != nil {
		return nil, err
	}
	iv.Node = value.Node{}
	iv.Label = ""
	iv.Color = nil
	return iv, nil
}

func labelBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("label: expected 2 arguments")
	}
	iv, err := wantInterval(args[0], "label")
	if err != nil {
		return nil, err
	}
	s, ok := args[1].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("label: second argument must be a string")
	}
	return iv.WithLabelColor(string(s), iv.Color), nil
}

func colorBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("color: expected 2 arguments")
	}
	iv, err := wantInterval(args[0], "color")
	if err != nil {
		return nil, err
	}
	s, ok := args[1].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("color: second argument must be a string")
	}
	c, err := value.ParseColor(string(s))
	if err != nil {
		return nil, err
	}
	return iv.WithLabelColor(iv.Label, &c), nil
}

func sortBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sort: expected 1 argument")
	}
	arr, err := wantArray(args[0], "sort")
	if err != nil {
		return nil, err
	}
	scale, err := scaleOf(arr.Items)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scale, func(i, j int) bool { return scale[i].ValueOf() < scale[j].ValueOf() })
	out := make([]eval.Value, len(scale))
	for i, iv := range scale {
		out[i] = iv
	}
	return value.ArrayVal{Items: out}, nil
}

func reverseBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("reverse: expected 1 argument")
	}
	arr, err := wantArray(args[0], "reverse")
	if err != nil {
		return nil, err
	}
	out := make([]eval.Value, len(arr.Items))
	for i, v := range arr.Items {
		out[len(out)-1-i] = v
	}
	return value.ArrayVal{Items: out}, nil
}

func repeatBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("repeat: expected 2 arguments")
	}
	arr, err := wantArray(args[0], "repeat")
	if err != nil {
		return nil, err
	}
	n, err := wantInterval(args[1], "repeat")
	if err != nil {
		return nil, err
	}
	count := int(n.ValueOf())
	if count < 0 {
		return nil, fmt.Errorf("repeat: negative count")
	}
	var out []eval.Value
	for i := 0; i < count; i++ {
		out = append(out, arr.Items...)
	}
	return value.ArrayVal{Items: out}, nil
}

func lengthBuiltin(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("length: expected 1 argument")
		}
		arr, err := wantArray(args[0], "length")
		if err != nil {
			return nil, err
		}
		return value.NewExact(monzo.FromRatio(in.Ctx.Primes, int64(len(arr.Items)), 1), value.Linear), nil
	}
}

func stringifyBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("stringify: expected 1 argument")
	}
	data, err := serialize.Marshal(args[0])
	if err != nil {
		return nil, err
	}
	return value.StringVal(data), nil
}

func parseJSONBuiltin(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("parseJSON: expected 1 argument")
		}
		s, ok := args[0].(value.StringVal)
		if !ok {
			return nil, fmt.Errorf("parseJSON: expected a string")
		}
		return serialize.Unmarshal(in.Ctx.Primes, []byte(s))
	}
}

func interpolateColorBuiltin(args []eval.Value) (eval.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("interpolateColor: expected 3 arguments")
	}
	a, ok := args[0].(value.Color)
	if !ok {
		return nil, fmt.Errorf("interpolateColor: first argument must be a color")
	}
	b, ok := args[1].(value.Color)
	if !ok {
		return nil, fmt.Errorf("interpolateColor: second argument must be a color")
	}
	t, err := wantInterval(args[2], "interpolateColor")
	if err != nil {
		return nil, err
	}
	return value.Blend(a, b, t.ValueOf())
}

func unaryRealFn(f func(float64) float64, in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument")
		}
		iv, err := wantInterval(args[0], "arith")
		if err != nil {
			return nil, err
		}
		v := f(iv.ValueOf())
		m := monzo.FromFloat(in.Ctx.Primes, v)
		return value.NewExact(m, iv.Domain), nil
	}
}

func playBuiltin(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("play: expected at least 1 argument (the scale; it is sent to localhost:57120)")
		}
		arr, err := wantArray(args[0], "play")
		if err != nil {
			return nil, err
		}
		scale, err := scaleOf(arr.Items)
		if err != nil {
			return nil, err
		}
		host, port := "localhost", 57120
		refHz, _ := monzo.ValueOf(in.Ctx.Reference)
		d := playback.NewDialer(host, port)
		if err := d.PlayScale(scale, refHz, defaultGap); err != nil {
			return nil, err
		}
		return value.NoneVal{}, nil
	}
}

func sendMidiBuiltin(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("sendMidi: expected (scale, deviceName)")
		}
		arr, err := wantArray(args[0], "sendMidi")
		if err != nil {
			return nil, err
		}
		scale, err := scaleOf(arr.Items)
		if err != nil {
			return nil, err
		}
		name, ok := args[1].(value.StringVal)
		if !ok {
			return nil, fmt.Errorf("sendMidi: second argument must be a device name string")
		}
		out, err := playback.OpenMIDI(string(name))
		if err != nil {
			return nil, err
		}
		defer out.Close()
		refHz, _ := monzo.ValueOf(in.Ctx.Reference)
		if err := out.SendMidi(scale, refHz, defaultNoteDur); err != nil {
			return nil, err
		}
		return value.NoneVal{}, nil
	}
}

func renderBuiltin(in *eval.Interp) func([]eval.Value) (eval.Value, error) {
	return func(args []eval.Value) (eval.Value, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("render: expected (scale, path)")
		}
		arr, err := wantArray(args[0], "render")
		if err != nil {
			return nil, err
		}
		scale, err := scaleOf(arr.Items)
		if err != nil {
			return nil, err
		}
		path, ok := args[1].(value.StringVal)
		if !ok {
			return nil, fmt.Errorf("render: second argument must be a file path string")
		}
		refHz, _ := monzo.ValueOf(in.Ctx.Reference)
		if err := renderToFile(string(path), scale, refHz); err != nil {
			return nil, err
		}
		return value.NoneVal{}, nil
	}
}

func renderToFile(path string, scale []value.Interval, refHz float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render.RenderWAV(f, scale, refHz, defaultRenderDur)
}
