package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/rusalad/rusalad/core"
	"github.com/rusalad/rusalad/core/history"
	"github.com/rusalad/rusalad/core/subtitle"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/outwriter"
	"github.com/rusalad/rusalad/internal/reports"
	"github.com/sirupsen/logrus"
)

// historyContentType is the media type of the history document.
const historyContentType = "application/json; charset=UTF-8"

func (s *Server) historyHandler(l *logrus.Entry, w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	runID, err := contract.ParseRunID(params.ByName("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg := s.cfg.Clone()
	cfg.RunID = runID

	src, err := core.NewRunSource(cfg, s.fs, s.mgr)
	if err != nil {
		l.WithError(err).Error("Failed to open run source")
		http.Error(w, "run source unavailable", http.StatusInternalServerError)
		return
	}
	h, err := core.GetHistory(r.Context(), cfg, src, func(id int, err error) {
		l.WithError(err).WithField("run", id).Warn("Skipping run without a readable report")
	})
	if err != nil {
		l.WithError(err).Error("Failed to build history")
		http.Error(w, "failed to build history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", historyContentType)
	if err := outwriter.WriteHistoryJSON(w, h); err != nil {
		l.WithError(err).Error("Failed to write history")
	}
}

func (s *Server) fileHandler(l *logrus.Entry, w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	runID, err := contract.ParseRunID(params.ByName("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dirs := reports.NewDirSource(s.fs, s.cfg.ReportsDir)
	if runID, err = history.ResolveStart(r.Context(), dirs, runID); err != nil {
		if errors.Is(err, contract.ErrRunNotFound) {
			http.NotFound(w, r)
			return
		}
		l.WithError(err).Error("Failed to find the latest run")
		http.Error(w, "failed to find run", http.StatusInternalServerError)
		return
	}

	rel, ok := reports.SanitizePath(params.ByName("path"))
	if !ok {
		http.Error(w, "path escapes the report folder", http.StatusForbidden)
		return
	}
	file := filepath.Join(reports.RunResultDir(s.cfg.ReportsDir, runID), filepath.FromSlash(rel))

	info, err := s.fs.Stat(file)
	switch {
	case err == nil && info.IsDir():
		http.Error(w, "directory listing is not allowed", http.StatusForbidden)
	case err == nil:
		s.serveFile(l, w, r, file, info)
	case errors.Is(err, os.ErrNotExist):
		s.serveConverted(l, w, r, file)
	default:
		l.WithError(err).Error("Failed to stat report file")
		http.Error(w, "failed to read file", http.StatusInternalServerError)
	}
}

func (s *Server) serveFile(l *logrus.Entry, w http.ResponseWriter, r *http.Request, file string, info os.FileInfo) {
	f, err := s.fs.Open(file)
	if err != nil {
		l.WithError(err).Error("Failed to open report file")
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// serveConverted answers a request for a missing .xml file with its .srt sibling converted to timed text.
func (s *Server) serveConverted(l *logrus.Entry, w http.ResponseWriter, r *http.Request, file string) {
	base, ok := strings.CutSuffix(file, ".xml")
	if !ok {
		http.NotFound(w, r)
		return
	}
	srt := base + ".srt"
	info, err := s.fs.Stat(srt)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	markup, err := core.ConvertFile(s.fs, srt, subtitle.Options{Lang: s.cfg.Lang})
	if err != nil {
		l.WithError(err).Error("Failed to convert subtitles")
		http.Error(w, "failed to convert subtitles", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", subtitle.ContentType)
	if _, err := w.Write([]byte(markup)); err != nil {
		l.WithError(err).Debug("Failed to write timed text")
	}
}
