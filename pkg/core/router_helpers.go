package core

import (
	"errors"
	"net/http"

	"github.com/joeydtaylor/steeze-scorefn/pkg/codec"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
	"github.com/joeydtaylor/steeze-scorefn/pkg/scorefn"
)

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func writeValue(w http.ResponseWriter, v any, status int) {
	b, err := codec.JSONStrict.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, b, status)
}

func statusIf(s, def int) int {
	if s > 0 {
		return s
	}
	return def
}

type errorDetail struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Line   int    `json:"line,omitempty"`
	Col    int    `json:"col,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// describeError maps a failure to its error type, HTTP status and the
// location it points at. notFound is the status used for unknown names.
func describeError(err error, notFound int) (errorDetail, int) {
	var (
		nre *registry.NotRegisteredError
		rej *registry.RejectedError
		pe  *scorefn.ParsingError
		se  *scorefn.SyntaxError
		mbe *http.MaxBytesError
	)
	d := errorDetail{Reason: err.Error()}
	var loc registry.Location
	status := http.StatusBadRequest

	switch {
	case errors.As(err, &nre):
		d.Type, loc, status = "named_object_not_found", nre.Location, notFound
	case errors.As(err, &rej):
		d.Type, loc = "deprecated_name", rej.Location
	case errors.As(err, &pe):
		d.Type, loc = "parsing_exception", pe.Location
	case errors.As(err, &se):
		d.Type, loc = "syntax_error", se.Location
	case errors.As(err, &mbe):
		d.Type, status = "request_too_large", http.StatusRequestEntityTooLarge
	default:
		d.Type, status = "internal", http.StatusInternalServerError
	}
	d.Line, d.Col = loc.Line, loc.Column
	return d, statusIf(status, http.StatusBadRequest)
}

func writeError(w http.ResponseWriter, err error, notFound int) {
	d, status := describeError(err, notFound)
	writeValue(w, errorBody{Error: d}, status)
}
