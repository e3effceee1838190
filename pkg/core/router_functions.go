package core

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-scorefn/pkg/parsefield"
	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
	"github.com/joeydtaylor/steeze-scorefn/pkg/scorefn"
	httpx "github.com/joeydtaylor/steeze-scorefn/pkg/transport/httpx"
	"go.uber.org/zap"
)

type functionHandlers struct {
	reg    *scorefn.Registry
	policy parsefield.Policy
	log    *zap.Logger
}

type functionView struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Deprecated   []string `json:"deprecated,omitempty"`
	ReplacedWith string   `json:"replaced_with,omitempty"`
}

type resolutionView struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	Outcome         string `json:"outcome"`
	DeprecatedMatch bool   `json:"deprecated_match"`
	Notice          string `json:"notice,omitempty"`
}

type parsedView struct {
	Kind     string           `json:"kind"`
	Function scorefn.Function `json:"function"`
}

// requestPolicy honours ?policy=, falling back to the manifest default.
func (h functionHandlers) requestPolicy(r *http.Request) (parsefield.Policy, error) {
	q := strings.TrimSpace(r.URL.Query().Get("policy"))
	if q == "" {
		return h.policy, nil
	}
	return parsefield.ParsePolicy(q)
}

// warnOnDeprecated wraps p so every deprecation notice is also returned to
// the client as a Warning header.
func warnOnDeprecated(w http.ResponseWriter, p parsefield.Policy) parsefield.Matcher {
	return parsefield.MatcherFunc(func(name string, f parsefield.Field) (parsefield.Result, error) {
		res, err := p.Match(name, f)
		if err == nil && res.Notice != "" {
			w.Header().Add("Warning", fmt.Sprintf("299 scorefn %q", res.Notice))
		}
		return res, err
	})
}

func (h functionHandlers) list(w http.ResponseWriter, _ *http.Request) {
	entries := h.reg.Entries()
	out := make([]functionView, 0, len(entries))
	for _, e := range entries {
		out = append(out, functionView{
			Key:          e.Key,
			Name:         e.Field.Name(),
			Deprecated:   e.Field.DeprecatedNames(),
			ReplacedWith: e.Field.ReplacedWith(),
		})
	}
	writeValue(w, out, http.StatusOK)
}

func (h functionHandlers) resolve(w http.ResponseWriter, r *http.Request) {
	p, err := h.requestPolicy(r)
	if err != nil {
		writeValue(w, errorBody{Error: errorDetail{Type: "illegal_argument", Reason: err.Error()}}, http.StatusBadRequest)
		return
	}
	name := httpx.URLParam(r, "name")
	res, err := h.reg.Explain(name, warnOnDeprecated(w, p), registry.Location{})
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	writeValue(w, resolutionView{
		Key:             res.Key,
		Name:            res.Entry.Field.Name(),
		Outcome:         res.Result.Outcome.String(),
		DeprecatedMatch: res.Result.Outcome == parsefield.MatchDeprecated,
		Notice:          res.Result.Notice,
	}, http.StatusOK)
}

func (h functionHandlers) parse(w http.ResponseWriter, r *http.Request) {
	p, err := h.requestPolicy(r)
	if err != nil {
		writeValue(w, errorBody{Error: errorDetail{Type: "illegal_argument", Reason: err.Error()}}, http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	fn, err := scorefn.ParseFunction(h.reg, warnOnDeprecated(w, p), body)
	if err != nil {
		d, status := describeError(err, http.StatusBadRequest)
		if status >= http.StatusInternalServerError {
			h.log.Error("parse failed", zap.Error(err))
		}
		writeValue(w, errorBody{Error: d}, status)
		return
	}
	writeValue(w, parsedView{Kind: fn.Kind(), Function: fn}, http.StatusOK)
}
