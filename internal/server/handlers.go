// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pdiddy/docstitch/internal/delivery"
	"github.com/pdiddy/docstitch/internal/history"
	"github.com/pdiddy/docstitch/internal/publish"
	"github.com/pdiddy/docstitch/pkg/types"
)

// Delivery modes accepted by POST /merge.
const (
	deliverAttachment = "attachment"
	deliverLink       = "link"
	deliverPublish    = "publish"
)

const multipartMemory = 32 << 20

// mergeResponse is returned for delivery=link and delivery=publish.
type mergeResponse struct {
	RunID    string              `json:"run_id"`
	FileName string              `json:"file_name"`
	Pages    int                 `json:"pages"`
	Sources  []types.SourcePages `json:"sources"`
	Href     string              `json:"href"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeBadRequest(w, "invalid multipart body: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileName, err := delivery.FileName(r.FormValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mode := r.FormValue("delivery")
	if mode == "" {
		mode = deliverAttachment
	}
	switch mode {
	case deliverAttachment, deliverLink:
	case deliverPublish:
		if s.publisher == nil {
			writeBadRequest(w, "publishing is not configured")
			return
		}
	default:
		writeBadRequest(w, fmt.Sprintf("unknown delivery %q (want attachment, link or publish)", mode))
		return
	}

	batch, err := readUploads(r.MultipartForm.File["file"])
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if len(batch) == 0 {
		writeBadRequest(w, "no files uploaded")
		return
	}
	if dups := batch.Duplicates(); len(dups) > 0 {
		writeBadRequest(w, "duplicate file names: "+strings.Join(dups, ", "))
		return
	}
	if order := r.MultipartForm.Value["order"]; len(order) > 0 {
		if batch, err = batch.Reorder(order); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	run := &history.Run{ID: history.NewRunID(), Output: fileName, Files: batch.Names()}
	start := time.Now()
	doc, err := s.merger.Process(r.Context(), batch)
	run.Duration = time.Since(start)
	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
		s.record(r, run)
		s.writeError(w, r, err)
		return
	}
	run.Status = history.StatusDone
	run.Pages = doc.Pages
	run.Sources = doc.Sources
	s.record(r, run)

	w.Header().Set("X-Docstitch-Run", run.ID)
	switch mode {
	case deliverAttachment:
		w.Header().Set("Content-Type", delivery.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
		w.Header().Set("X-Docstitch-Pages", strconv.Itoa(doc.Pages))
		w.WriteHeader(http.StatusOK)
		w.Write(doc.Data)
	case deliverLink:
		link, err := delivery.NewLink(doc, fileName)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mergeResponse{
			RunID: run.ID, FileName: link.FileName, Pages: doc.Pages, Sources: doc.Sources, Href: link.Href,
		})
	case deliverPublish:
		url, err := s.publisher.Publish(r.Context(), publish.ObjectKey(s.prefix, run.ID, fileName), doc.Data)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mergeResponse{
			RunID: run.ID, FileName: fileName, Pages: doc.Pages, Sources: doc.Sources, Href: url,
		})
	}
}

func (s *Server) record(r *http.Request, run *history.Run) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(r.Context(), run); err != nil {
		s.log.Warn("recording run", zap.String("run", run.ID), zap.Error(err))
	}
}

// readUploads reads multipart file parts into a batch in upload order.
func readUploads(headers []*multipart.FileHeader) (types.Batch, error) {
	batch := make(types.Batch, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
		}
		batch = append(batch, types.InputFile{Name: fh.Filename, Data: buf.Bytes()})
	}
	return batch, nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Run{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "history is not enabled"})
		return
	}
	run, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
