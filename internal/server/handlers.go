package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/anova-cli/internal/anova"
	"github.com/KaramelBytes/anova-cli/internal/dataset"
	"github.com/KaramelBytes/anova-cli/internal/report"
)

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// BatchItem is one file's outcome in a multipart request.
type BatchItem struct {
	File   string         `json:"file"`
	Record *report.Record `json:"record,omitempty"`
	Error  string         `json:"error,omitempty"`
	Stage  string         `json:"stage,omitempty"`
}

func (s *Server) handleAnova(w http.ResponseWriter, r *http.Request) {
	opt, format, dopt, err := s.requestOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Stage: "options"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		s.handleMultipart(w, r, opt, dopt)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "request"
	}
	ds, err := dataset.LoadReader(r.Body, name, dopt)
	if err != nil {
		writeJSON(w, loadStatus(err), errorResponse{Error: err.Error(), Stage: "load"})
		return
	}
	res, err := anova.Run(ds.Table, opt)
	if err != nil {
		writeJSON(w, runStatus(err), errorResponse{Error: err.Error(), Stage: anova.FailedStep(err)})
		return
	}
	runID := uuid.NewString()
	body, err := report.Render(format, ds.Name, runID, res)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Stage: "report"})
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleMultipart(w http.ResponseWriter, r *http.Request, opt anova.Options, dopt dataset.Options) {
	if err := r.ParseMultipartForm(s.cfg.MaxBodyBytes); err != nil {
		writeJSON(w, loadStatus(err), errorResponse{Error: fmt.Sprintf("parse multipart: %v", err), Stage: "load"})
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no 'file' parts in upload", Stage: "load"})
		return
	}
	items := make([]BatchItem, len(files))
	var g errgroup.Group
	g.SetLimit(s.cfg.Jobs)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			item := BatchItem{File: fh.Filename}
			defer func() { items[i] = item }()
			f, err := fh.Open()
			if err != nil {
				item.Error, item.Stage = err.Error(), "load"
				return nil
			}
			defer f.Close()
			ds, err := dataset.LoadReader(f, fh.Filename, dopt)
			if err != nil {
				item.Error, item.Stage = err.Error(), "load"
				return nil
			}
			res, err := anova.Run(ds.Table, opt)
			if err != nil {
				item.Error, item.Stage = err.Error(), anova.FailedStep(err)
				return nil
			}
			rec := report.NewRecord(ds.Name, uuid.NewString(), res)
			item.Record = &rec
			return nil
		})
	}
	_ = g.Wait()
	s.log.Debug("multipart analysis complete", zap.Int("files", len(files)))
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) requestOptions(r *http.Request) (anova.Options, report.Format, dataset.Options, error) {
	q := r.URL.Query()
	opt := s.cfg.Options
	opt.Logger = s.log
	format := s.cfg.Format
	dopt := dataset.DefaultOptions()
	dopt.MaxRows = s.cfg.MaxRows

	if v := q.Get("alpha"); v != "" {
		a, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opt, format, dopt, fmt.Errorf("invalid alpha %q", v)
		}
		opt.Alpha = a
	}
	if v := q.Get("tail"); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil {
			return opt, format, dopt, fmt.Errorf("invalid tail %q", v)
		}
		opt.TailTest = t
	}
	if v := q.Get("fmax_threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opt, format, dopt, fmt.Errorf("invalid fmax_threshold %q", v)
		}
		opt.FMaxThreshold = t
	}
	if v := q.Get("precision"); v != "" {
		p, err := anova.ParsePrecision(v)
		if err != nil {
			return opt, format, dopt, err
		}
		opt.Precision = p
	}
	if v := q.Get("format"); v != "" {
		f, err := report.ParseFormat(v)
		if err != nil {
			return opt, format, dopt, err
		}
		format = f
	}
	if v := q.Get("conditions"); v != "" {
		dopt.Conditions = strings.Split(v, ",")
	}
	if err := opt.Validate(); err != nil {
		return opt, format, dopt, err
	}
	return opt, format, dopt, nil
}

func loadStatus(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func runStatus(err error) int {
	if anova.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
