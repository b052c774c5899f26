// Package script runs a user-supplied JavaScript function that picks one of
// the parsed variants.
//
// The script must define a global function
//
//	selectVariant(variants)
//
// where variants is an array of {url, size, mediaType, quality} objects in
// descending size order. It returns the index of the chosen variant, a
// quality label such as "720p", or null when nothing fits.
package script

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/ytget/tnadl/internal/logger"
	"github.com/ytget/tnadl/types"
)

const (
	// EntryPoint is the global function the script must define.
	EntryPoint = "selectVariant"
	// DefaultTimeout bounds a single Choose call.
	DefaultTimeout = 2 * time.Second
)

// ErrNoEntryPoint is returned when the script does not define EntryPoint.
var ErrNoEntryPoint = errors.New("script: " + EntryPoint + " function not defined")

// jsVariant is the shape handed to the script.
type jsVariant struct {
	URL       string `json:"url"`
	Size      int    `json:"size"`
	MediaType string `json:"mediaType"`
	Quality   string `json:"quality"`
}

// Selector implements variants.Chooser on top of goja. Each Choose call uses
// a fresh runtime, so a Selector is safe for sequential reuse.
type Selector struct {
	name    string
	program *goja.Program
	timeout time.Duration
	log     *logger.ComponentLogger
}

// Load reads and compiles the script at path.
func Load(path string) (*Selector, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return New(path, string(src))
}

// New compiles source. name is used in stack traces and logs.
func New(name, source string) (*Selector, error) {
	prog, err := goja.Compile(name, source, false)
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", name, err)
	}
	return &Selector{
		name:    name,
		program: prog,
		timeout: DefaultTimeout,
		log:     logger.Nop().WithComponent(logger.ComponentScript),
	}, nil
}

// Name returns the script name given to New or Load.
func (s *Selector) Name() string { return s.name }

// WithTimeout sets the execution limit of one Choose call.
func (s *Selector) WithTimeout(d time.Duration) *Selector {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithLogger routes console.log output of the script to l.
func (s *Selector) WithLogger(l *logger.Logger) *Selector {
	s.log = l.WithComponent(logger.ComponentScript)
	return s
}

// Choose runs the script against list and returns the chosen index, or -1
// when the script returns null or undefined.
func (s *Selector) Choose(list types.VariantList) (int, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	log := s.log.With(map[string]interface{}{"script": s.name})
	_ = vm.Set("console", map[string]any{
		"log": func(args ...any) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, fmt.Sprint(a))
			}
			log.Debug(strings.Join(parts, " "))
		},
	})

	timer := time.AfterFunc(s.timeout, func() { vm.Interrupt("timeout after " + s.timeout.String()) })
	defer timer.Stop()

	if _, err := vm.RunProgram(s.program); err != nil {
		return -1, fmt.Errorf("run script: %w", err)
	}
	fn, ok := goja.AssertFunction(vm.Get(EntryPoint))
	if !ok {
		return -1, ErrNoEntryPoint
	}

	in := make([]jsVariant, len(list))
	for i, v := range list {
		in[i] = jsVariant{URL: v.URL, Size: v.Size, MediaType: v.MediaType, Quality: v.Quality}
	}
	res, err := fn(goja.Undefined(), vm.ToValue(in))
	if err != nil {
		return -1, fmt.Errorf("%s error: %w", EntryPoint, err)
	}

	idx, err := resultIndex(res, list)
	if err != nil {
		return -1, err
	}
	log.Debug("Script chose variant", map[string]interface{}{"index": idx})
	return idx, nil
}

// resultIndex interprets the value returned by the script.
func resultIndex(res goja.Value, list types.VariantList) (int, error) {
	if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
		return -1, nil
	}
	switch v := res.Export().(type) {
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return -1, fmt.Errorf("%s returned non-integer index %v", EntryPoint, v)
		}
		return int(v), nil
	case string:
		return indexByLabel(v, list), nil
	}
	return -1, fmt.Errorf("%s returned unsupported value %q", EntryPoint, res.String())
}

// indexByLabel matches a returned label against quality labels, then sizes.
func indexByLabel(label string, list types.VariantList) int {
	label = strings.TrimSpace(label)
	for i := range list {
		if strings.EqualFold(list[i].Quality, label) {
			return i
		}
	}
	if n, err := strconv.Atoi(label); err == nil {
		for i := range list {
			if list[i].Size == n {
				return i
			}
		}
	}
	return -1
}
