package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/extract"
	"github.com/sells-group/matching-cli/internal/model"
	"github.com/sells-group/matching-cli/internal/session"
)

type successResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Results   any    `json:"results,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Status: "error", Message: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadResponseData echoes the two companies back so the client can render a
// confirmation before requesting analysis.
type uploadResponseData struct {
	CompanyAName     string `json:"company_a_name"`
	CompanyAIndustry string `json:"company_a_industry"`
	CompanyBName     string `json:"company_b_name"`
	CompanyBIndustry string `json:"company_b_industry"`
}

func (s *Server) handleUploadAndMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	target := model.CompanyProfile{
		Name:        strings.TrimSpace(r.FormValue("target_company_name")),
		Industry:    strings.TrimSpace(r.FormValue("target_industry")),
		Description: strings.TrimSpace(r.FormValue("target_business_description")),
	}
	if !target.Complete() {
		writeError(w, http.StatusBadRequest, "target company details are required")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		writeError(w, http.StatusBadRequest, "only .csv and .xlsx files are supported")
		return
	}

	sessionID := uuid.NewString()
	savedPath, err := s.saveUpload(sessionID, header.Filename, file)
	if err != nil {
		zap.L().Error("upload save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save the uploaded file")
		return
	}

	companyA, err := extract.FromFile(savedPath)
	if err != nil {
		_ = os.Remove(savedPath)
		zap.L().Warn("extraction failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		writeError(w, http.StatusBadRequest, extractionMessage(err))
		return
	}

	state := &model.SessionState{
		CompanyA:   companyA,
		CompanyB:   target,
		UploadPath: savedPath,
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.Put(r.Context(), sessionID, state); err != nil {
		zap.L().Error("session put failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	zap.L().Info("session created",
		zap.String("session_id", sessionID),
		zap.String("company_a", companyA.Name),
		zap.String("company_b", target.Name),
	)

	writeJSON(w, http.StatusOK, successResponse{
		Status:    "success",
		SessionID: sessionID,
		Data: uploadResponseData{
			CompanyAName:     companyA.Name,
			CompanyAIndustry: companyA.Industry,
			CompanyBName:     target.Name,
			CompanyBIndustry: target.Industry,
		},
	})
}

// saveUpload writes the upload under a session-prefixed name so cleanup can
// find every file belonging to the session.
func (s *Server) saveUpload(sessionID, filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	base := filepath.Base(filepath.ToSlash(filename))
	path := filepath.Join(s.uploadDir, sessionID+"_"+base)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func extractionMessage(err error) string {
	var missing *extract.MissingFieldsError
	if errors.As(err, &missing) {
		return err.Error()
	}
	return "could not extract company data from the uploaded file"
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// loadSession resolves the session referenced by the request body. A nil
// state with a written response means the caller should return.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (string, *model.SessionState) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return "", nil
	}

	state, err := s.sessions.Get(r.Context(), req.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "unknown or expired session")
		return "", nil
	}
	if err != nil {
		zap.L().Error("session get failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load session")
		return "", nil
	}
	return req.SessionID, state
}

func (s *Server) handleAnalyzeMatching(w http.ResponseWriter, r *http.Request) {
	id, state := s.loadSession(w, r)
	if state == nil {
		return
	}

	summary, degraded := s.engine.Compare(r.Context(), state.CompanyA, state.CompanyB)
	if degraded {
		zap.L().Warn("analysis degraded", zap.String("session_id", id))
	}

	state.Analysis = &summary
	// Update, not Put: a cleanup that landed while the analysis ran must
	// not be undone by re-inserting the session.
	if err := s.sessions.Update(r.Context(), id, state); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown or expired session")
			return
		}
		zap.L().Error("session update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store analysis")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: summary})
}

func (s *Server) handleMatchingResults(w http.ResponseWriter, r *http.Request) {
	id, state := s.loadSession(w, r)
	if state == nil {
		return
	}

	report := s.engine.AssembleReport(r.Context(), state.CompanyA, state.CompanyB, s.finder)
	if report.Degraded {
		zap.L().Warn("report degraded", zap.String("session_id", id))
	}

	state.Report = report
	if err := s.sessions.Update(r.Context(), id, state); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown or expired session")
			return
		}
		zap.L().Error("session update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store results")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Results: report})
}

func (s *Server) handleCleanupSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	_, err := s.sessions.Get(r.Context(), req.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		writeJSON(w, http.StatusOK, successResponse{Status: "success", Message: "session not found"})
		return
	}

	if err := s.sessions.Delete(r.Context(), req.SessionID); err != nil {
		zap.L().Error("session delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete session")
		return
	}
	s.removeSessionFiles(req.SessionID)

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Message: "session cleaned up"})
}

// removeSessionFiles unlinks every upload saved under the session prefix.
func (s *Server) removeSessionFiles(sessionID string) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), sessionID+"_") {
			continue
		}
		path := filepath.Join(s.uploadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			zap.L().Warn("could not remove upload", zap.String("path", path), zap.Error(err))
		}
	}
}
