package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/jobfit-kit/internal/app"
	"github.com/jonathan/jobfit-kit/internal/rendering"
	"github.com/jonathan/jobfit-kit/internal/types"
	"go.uber.org/zap"
)

type validatable interface {
	Validate() error
}

// decodeJSON reads a bounded JSON body into v and validates it when v supports it
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if val, ok := v.(validatable); ok {
		return val.Validate()
	}
	return nil
}

// --- view ---

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).View())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req types.NavigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	a := s.workspaceApp(r)
	if err := a.Navigate(app.View(req.View)); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a.View())
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	a := s.workspaceApp(r)
	if err := a.Back(); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a.View())
}

// --- profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).Profile())
}

func (s *Server) handleSetResumeText(w http.ResponseWriter, r *http.Request) {
	var req types.ResumeTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).SetResumeText(r.Context(), req.Text))
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		s.errorResponse(w, &http.MaxBytesError{Limit: s.maxUpload})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, err)
			return
		}
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "multipart form required: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	profile, err := s.workspaceApp(r).UploadResume(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleRemoveResume(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).RemoveResume(r.Context()))
}

func (s *Server) handleSetTargetRole(w http.ResponseWriter, r *http.Request) {
	var req types.TargetRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).SetTargetRole(r.Context(), req.TargetRole))
}

func (s *Server) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	var req types.PersonalInfoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	profile, err := s.workspaceApp(r).UpdatePersonalInfo(r.Context(), types.PersonalInfo{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Links:    req.Links,
	})
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	a := s.workspaceApp(r)
	if _, err := a.ExtractResume(r.Context()); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a.Profile())
}

func (s *Server) handleSetSectionOrder(w http.ResponseWriter, r *http.Request) {
	var req types.SectionOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).SetSectionOrder(r.Context(), req.Order))
}

func (s *Server) handleMoveSection(w http.ResponseWriter, r *http.Request) {
	var req types.MoveSectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	profile, err := s.workspaceApp(r).MoveSection(r.Context(), req.From, req.To)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.workspaceApp(r).Document()
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleExportProfile(w http.ResponseWriter, r *http.Request) {
	doc, err := s.workspaceApp(r).Document()
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.exportDocument(w, r, doc, "resume")
}

// --- analysis ---

// analysisResponse is the result of POST /analysis
type analysisResponse struct {
	Analysis *types.ApplicationAnalysis `json:"analysis"`
	// Job describes where a fetched job description came from
	Job any `json:"job,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := analysisResponse{}
	jobDescription := req.JobDescription
	if req.JobURL != "" {
		job, err := s.loadJob(r.Context(), req.JobURL)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		s.logger.Info("job posting fetched", zap.String("url", req.JobURL), zap.Int("chars", len(job.Text)))
		jobDescription = job.Text
		resp.Job = job.Metadata
	}

	result, err := s.workspaceApp(r).AnalyzeApplication(r.Context(), jobDescription, req.Instructions)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	resp.Analysis = result
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session := s.workspaceApp(r).Session()
	if session == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

func (s *Server) handleClearAnalysis(w http.ResponseWriter, r *http.Request) {
	s.workspaceApp(r).ClearAnalysis()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req types.CoverLetterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	session, err := s.workspaceApp(r).UpdateCoverLetter(req.CoverLetter)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	opt, err := s.workspaceApp(r).OptimizeResume(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, opt)
}

func (s *Server) handleExportOptimization(w http.ResponseWriter, r *http.Request) {
	doc, err := s.workspaceApp(r).OptimizedDocument()
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.exportDocument(w, r, doc, "resume-optimized")
}

// --- history ---

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.workspaceApp(r).History())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.workspaceApp(r).ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.workspaceApp(r).HistoryEntry(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) handleSelectHistory(w http.ResponseWriter, r *http.Request) {
	a := s.workspaceApp(r)
	if _, err := a.SelectHistory(r.PathValue("id")); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a.View())
}

// exportDocument writes doc in the format named by the format query parameter
func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request, doc rendering.Document, basename string) {
	format, err := rendering.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}
	data, err := rendering.Export(r.Context(), doc, format, s.export)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	disposition := "inline"
	if format != rendering.FormatHTML || strings.EqualFold(r.URL.Query().Get("download"), "true") {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, basename+format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export", zap.Error(err))
	}
}
