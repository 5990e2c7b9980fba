package captcha

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// ErrAmbiguousField is returned by a FieldSource when a field was submitted
// more than once.
var ErrAmbiguousField = errors.New("field submitted more than once")

// ErrBodyTooLarge is returned when a JSON body exceeds the parse limit.
var ErrBodyTooLarge = errors.New("request body too large")

// maxMemory bounds multipart and JSON body parsing, matching net/http's
// multipart default.
const maxMemory = 32 << 20

// FieldSource exposes the submitted fields of an inbound request.
type FieldSource interface {
	// Get returns the value bound to name, nil when it is absent, or an error
	// when the request cannot resolve it to a single value.
	Get(name string) (any, error)
}

// MapFields is a FieldSource backed by a plain map.
type MapFields map[string]any

func (m MapFields) Get(name string) (any, error) {
	return m[name], nil
}

type formFields struct {
	r *http.Request
}

// FormFields reads fields from a urlencoded or multipart request body.
// Bracketed array submissions (name[]=a&name[]=b) surface as a []string.
func FormFields(r *http.Request) FieldSource {
	return &formFields{r: r}
}

func (f *formFields) Get(name string) (any, error) {
	values, err := f.values()
	if err != nil {
		return nil, err
	}

	var arr []string
	for key, v := range values {
		if strings.HasPrefix(key, name+"[") {
			arr = append(arr, v...)
		}
	}

	vals := values[name]
	switch {
	case len(vals) > 1, len(vals) == 1 && arr != nil:
		return nil, fmt.Errorf("%q: %w", name, ErrAmbiguousField)
	case len(vals) == 1:
		return vals[0], nil
	case arr != nil:
		return arr, nil
	}
	return nil, nil
}

func (f *formFields) values() (map[string][]string, error) {
	ct, _, _ := mime.ParseMediaType(f.r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := f.r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		return f.r.MultipartForm.Value, nil
	}
	if err := f.r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return f.r.PostForm, nil
}

type jsonFields struct {
	r      *http.Request
	parsed map[string]any
	dups   map[string]bool
	err    error
	done   bool
}

// JSONFields reads fields from a JSON object body. The body is restored so
// downstream handlers can read it again. A key repeated at the top level
// yields ErrAmbiguousField.
func JSONFields(r *http.Request) FieldSource {
	return &jsonFields{r: r}
}

func (j *jsonFields) Get(name string) (any, error) {
	if !j.done {
		j.parsed, j.err = j.decode()
		j.done = true
	}
	if j.err != nil {
		return nil, j.err
	}
	if j.dups[name] {
		return nil, fmt.Errorf("%q: %w", name, ErrAmbiguousField)
	}
	return j.parsed[name], nil
}

func (j *jsonFields) decode() (map[string]any, error) {
	if j.r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(io.LimitReader(j.r.Body, maxMemory+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(b) > maxMemory {
		return nil, ErrBodyTooLarge
	}
	j.r.Body = io.NopCloser(bytes.NewReader(b))
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("decode json body: not an object")
	}

	m := make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		key := tok.(string)
		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		if _, seen := m[key]; seen {
			if j.dups == nil {
				j.dups = make(map[string]bool)
			}
			j.dups[key] = true
		}
		m[key] = val
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	return m, nil
}
