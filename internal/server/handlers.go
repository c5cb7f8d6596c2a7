package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/importer"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
)

// maxUpload caps workbook uploads.
const maxUpload = 10 << 20

var (
	errStorage    = errors.New("storage failure")
	errBadRequest = errors.New("bad request")
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps an operation error onto a status code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, schedule.ErrSessionNotFound), errors.Is(err, schedule.ErrExamNotFound):
		status = http.StatusNotFound
	case errors.Is(err, schedule.ErrLastSession):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// decode reads a JSON body into dst and validates it. An empty body leaves
// dst at its zero value.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func sessionParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid session id %q", errBadRequest, chi.URLParam(r, "id"))
	}
	return id, nil
}

func examParam(r *http.Request) model.ID {
	return model.ID(chi.URLParam(r, "examID"))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

// ── Board ──

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	doc := s.Document()
	if q := r.URL.Query().Get("session"); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid session %q", q))
			return
		}
		if doc, err = schedule.SelectSession(doc, id); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.buildBoard(doc, s.now()))
}

func (s *Server) boardSocket(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(s.buildBoard(s.Document(), s.now()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.hub.Serve(w, r, data)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Document())
}

type centerRequest struct {
	CenterName *string `json:"centerName" validate:"omitempty,max=200"`
	LogoURL    *string `json:"logoUrl" validate:"omitempty,url"`
}

func (s *Server) putCenter(w http.ResponseWriter, r *http.Request) {
	var req centerRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		if req.CenterName != nil {
			d = schedule.SetCenterName(d, *req.CenterName)
		}
		if req.LogoURL != nil {
			d = schedule.SetLogoURL(d, *req.LogoURL)
		}
		return d, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ── Sessions ──

func (s *Server) addSession(w http.ResponseWriter, r *http.Request) {
	var added model.Session
	_, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		var out model.Document
		out, added = schedule.AddSession(d)
		return out, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

type renameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (s *Server) renameSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req renameRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		return schedule.RenameSession(d, id, req.Name)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		return schedule.DeleteSession(d, id)
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		return schedule.SelectSession(d, id)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ── Exams ──

func (s *Server) addExam(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch schedule.ExamPatch
	if err := s.decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	exam := schedule.NewExam()
	_, err = s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		out, err := schedule.AddExam(d, id, exam)
		if err != nil {
			return out, err
		}
		out, err = schedule.UpdateExam(out, id, exam.ID, patch)
		if err != nil {
			return out, err
		}
		exam = findExam(out, id, exam.ID)
		return out, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

func findExam(doc model.Document, sessionID int, examID model.ID) model.ExamRecord {
	for _, sess := range doc.Schedule {
		if sess.ID != sessionID {
			continue
		}
		for _, e := range sess.Exams {
			if e.ID == examID {
				return e
			}
		}
	}
	return model.ExamRecord{}
}

func (s *Server) updateExam(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch schedule.ExamPatch
	if err := s.decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		return schedule.UpdateExam(d, id, examParam(r), patch)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, findExam(doc, id, examParam(r)))
}

func (s *Server) removeExam(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		return schedule.RemoveExam(d, id, examParam(r))
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleHidden(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		return schedule.ToggleHidden(d, id, examParam(r))
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, findExam(doc, id, examParam(r)))
}

type duplicateRequest struct {
	ExtraPercent *int `json:"extraPercent" validate:"omitempty,min=0,max=400"`
}

func (s *Server) duplicateExam(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req duplicateRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	percent := s.cfg.Board.ExtraTimePercent
	if req.ExtraPercent != nil {
		percent = *req.ExtraPercent
	}
	var dup model.ExamRecord
	_, err = s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		out, e, err := schedule.DuplicateExam(d, id, examParam(r), percent)
		dup = e
		return out, err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

// ── Import ──

type bulkRequest struct {
	Text      string `json:"text" validate:"required"`
	Grammar   string `json:"grammar" validate:"omitempty,oneof=auto strict loose"`
	SessionID int    `json:"sessionId" validate:"min=0"`
}

type bulkResponse struct {
	OK        bool             `json:"ok"`
	Status    string           `json:"status"`
	Grammar   importer.Grammar `json:"grammar"`
	SessionID int              `json:"sessionId"`
	Added     int              `json:"added"`
}

func (s *Server) importBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	name := req.Grammar
	if name == "" {
		name = s.cfg.Board.BulkGrammar
	}
	grammar, err := importer.ParseGrammar(name)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	res := importer.ParseBulk(req.Text, grammar)
	resp := bulkResponse{OK: res.OK, Status: res.Status, Grammar: res.Grammar}
	if !res.OK {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	_, err = s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		id, err := schedule.ResolveSession(d, req.SessionID)
		if err != nil {
			return d, err
		}
		resp.SessionID = id
		return schedule.AppendExams(d, id, res.Exams)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp.Added = len(res.Exams)
	writeJSON(w, http.StatusOK, resp)
}

type fetchRequest struct {
	URL string `json:"url" validate:"omitempty,url"`
}

func (s *Server) fetchSheet(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	url := req.URL
	if url == "" {
		url = s.cfg.Sheet.URL
	}
	if url == "" {
		writeError(w, http.StatusBadRequest, "no sheet url configured")
		return
	}
	writeJSON(w, http.StatusOK, s.stager.Refresh(r.Context(), url))
}

func (s *Server) getSheet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stager.Snapshot())
}

func (s *Server) importSheetSession(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, ok := s.stager.Group(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("session %q is not staged", name))
		return
	}
	s.importGroups(w, r, []importer.Group{g})
}

func (s *Server) importSheetAll(w http.ResponseWriter, r *http.Request) {
	groups := s.stager.Snapshot().Groups
	if len(groups) == 0 {
		writeError(w, http.StatusNotFound, "nothing staged")
		return
	}
	s.importGroups(w, r, groups)
}

func (s *Server) importGroups(w http.ResponseWriter, r *http.Request, groups []importer.Group) {
	var res schedule.ImportResult
	if _, err := s.mutate(r.Context(), func(d model.Document) (model.Document, error) {
		var out model.Document
		out, res = schedule.ImportGroups(d, groups)
		return out, nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": res.Imported, "replaced": res.Replaced})
}

func (s *Server) uploadWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart \"file\" field")
		return
	}
	defer file.Close()

	groups, err := importer.ParseWorkbook(file)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "Error: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.stager.Stage(groups))
}
