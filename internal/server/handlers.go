package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ringplace/pkg/buildinfo"
	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/pipeline"
	"github.com/matzehuels/ringplace/pkg/plan"
	"github.com/matzehuels/ringplace/pkg/render"
)

// placementRequest is the JSON body of placement requests. Offset is an
// [x, y] pair of reals rounded to the nearest lattice point.
type placementRequest struct {
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Offset   []float64 `json:"offset,omitempty"`
	Distinct bool      `json:"distinct,omitempty"`
	Strategy string    `json:"strategy,omitempty"`
}

func (p placementRequest) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Count:    p.Count,
		Min:      p.Min,
		Max:      p.Max,
		Distinct: p.Distinct,
		Strategy: p.Strategy,
	}
	switch len(p.Offset) {
	case 0:
	case 2:
		offset, err := pipeline.RoundOffset(p.Offset[0], p.Offset[1])
		if err != nil {
			return opts, err
		}
		opts.Offset = offset
	default:
		return opts, errs.New(errs.ErrCodeInvalidArgument, "offset must be [x, y], got %d values", len(p.Offset))
	}
	return opts, nil
}

type planRequest struct {
	Name    string           `json:"name"`
	Request placementRequest `json:"request"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) createPlacement(w http.ResponseWriter, r *http.Request) {
	var body placementRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := body.options()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewDocument(res))
}

func (s *Server) renderPlacement(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := queryOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{string(format)}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := errs.ValidateName(body.Name); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := body.Request.options()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := plan.New(body.Name, res)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.plans.Save(r.Context(), p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("saved plan", "name", p.Name, "id", p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if plans == nil {
		plans = []*plan.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	p, err := plan.Find(r.Context(), s.plans, chi.URLParam(r, "ref"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	p, err := plan.Find(r.Context(), s.plans, chi.URLParam(r, "ref"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.plans.Delete(r.Context(), p.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("deleted plan", "name", p.Name, "id", p.ID)
	w.WriteHeader(http.StatusNoContent)
}

// fail writes err and logs anything that is not the caller's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errs.IsClientError(err) {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.New(errs.ErrCodeInvalidArgument, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidArgument, err, "invalid request body")
	}
	return nil
}

// queryOptions reads count, min, max, offset, distinct, strategy, labels,
// guides and graphviz from the query string.
func queryOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	if opts.Count, err = queryInt(q, "count"); err != nil {
		return opts, err
	}
	if opts.Min, err = queryFloat(q, "min"); err != nil {
		return opts, err
	}
	if opts.Max, err = queryFloat(q, "max"); err != nil {
		return opts, err
	}
	if opts.Offset, err = pipeline.ParseOffset(q.Get("offset")); err != nil {
		return opts, err
	}
	opts.Strategy = q.Get("strategy")

	for _, flag := range []struct {
		name string
		dst  *bool
	}{
		{"distinct", &opts.Distinct},
		{"labels", &opts.Labels},
		{"guides", &opts.Guides},
		{"graphviz", &opts.Graphviz},
		{"refresh", &opts.Refresh},
	} {
		if *flag.dst, err = queryBool(q, flag.name); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func queryInt(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidArgument, "%s: %q is not an integer", name, s)
	}
	return v, nil
}

func queryFloat(q url.Values, name string) (float64, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidArgument, "%s: %q is not a number", name, s)
	}
	return v, nil
}

func queryBool(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errs.New(errs.ErrCodeInvalidArgument, "%s: %q is not a boolean", name, s)
	}
	return v, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
