package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"prospectus/internal/domain"
	"prospectus/internal/extract"
	"prospectus/internal/i18n"
	"prospectus/internal/service"
)

const (
	serviceName    = "Prospectus Q&A Server"
	serviceVersion = "2.0.0"
	memoryWarnMB   = 400
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"status":          "healthy",
		"service":         serviceName,
		"version":         serviceVersion,
		"timestamp":       time.Now().UTC(),
		"uptime":          int(time.Since(s.started).Seconds()),
		"processedChunks": s.assistant.Snapshot().Len(),
		"currentLanguage": s.assistant.Language(),
		"inference":       s.assistant.InferenceName(),
		"endpoints": envelope{
			"health":         "/",
			"answerQuestion": "/api/answer-question",
			"detailedHealth": "/api/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	mb := func(b uint64) string { return fmt.Sprintf("%dMB", b>>20) }

	memory := "healthy"
	if ms.HeapAlloc>>20 >= memoryWarnMB {
		memory = "warning"
	}
	inference := "configured"
	if s.assistant.InferenceName() == "none" {
		inference = "missing"
	}
	content := "empty"
	if s.assistant.Snapshot().Len() > 0 {
		content = "ready"
	}
	writeJSON(w, http.StatusOK, envelope{
		"status":    "ok",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
		"uptime":    int(time.Since(s.started).Seconds()),
		"memory": envelope{
			"used":  mb(ms.HeapAlloc),
			"total": mb(ms.HeapSys),
			"sys":   mb(ms.Sys),
		},
		"checks": envelope{
			"server":        "healthy",
			"memory":        memory,
			"inference":     inference,
			"contentLoaded": content,
		},
	})
}

// uploadError is a client-facing upload rejection.
type uploadError string

func (e uploadError) Error() string { return string(e) }

const (
	errNoFile      uploadError = "No PDF file provided"
	errNotPDF      uploadError = "Only PDF files are allowed"
	errBadBody     uploadError = "Invalid request body"
	errBadBase64   uploadError = "Invalid base64 PDF data"
	defaultPDFName             = "uploaded.pdf"
)

type processRequest struct {
	PDFData  string `json:"pdfData"`
	Filename string `json:"filename"`
}

func (s *Server) handleProcessPDF(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	data, filename, err := s.readUpload(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large", "")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if !extract.IsPDF(data) {
		writeError(w, http.StatusBadRequest, errNotPDF.Error(), "")
		return
	}

	res, err := s.assistant.IngestFile(r.Context(), filename, data)
	if err != nil {
		log.Warn("pdf processing failed", zap.String("filename", filename), zap.Error(err))
		if errors.Is(err, domain.ErrExtractionFailed) {
			writeJSON(w, http.StatusBadRequest, envelope{
				"success": false,
				"error":   "PDF text extraction failed",
				"details": "The PDF appears to be image-based or contains very little text.",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, envelope{"error": "Failed to process PDF", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":    true,
		"message":    fmt.Sprintf("PDF processed successfully. Extracted %d chunks from %d pages.", len(res.Chunks), res.TotalPages),
		"chunks":     res.Chunks,
		"chunkCount": len(res.Chunks),
		"totalPages": res.TotalPages,
		"strategy":   res.Report.Strategy,
	})
}

// readUpload accepts a multipart "pdf" field or a JSON body with base64 data.
func (s *Server) readUpload(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			return nil, "", err
		}
		file, header, err := r.FormFile("pdf")
		if err != nil {
			return nil, "", errNoFile
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		return data, header.Filename, err
	}

	var req processRequest
	if err := decodeJSON(r, &req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", err
		}
		return nil, "", errBadBody
	}
	if req.PDFData == "" {
		return nil, "", errNoFile
	}
	payload := req.PDFData
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errBadBase64
	}
	if req.Filename == "" {
		req.Filename = defaultPDFName
	}
	return data, req.Filename, nil
}

type answerRequest struct {
	Question string            `json:"question"`
	History  []domain.Exchange `json:"history"`
}

type chunkRef struct {
	ID    string     `json:"id"`
	Page  int        `json:"page"`
	Tag   domain.Tag `json:"tag"`
	Score float64    `json:"score"`
	Text  string     `json:"text"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "Please provide a question.")
		return
	}

	reply, err := s.assistant.Ask(r.Context(), service.Query{Question: req.Question, History: req.History})
	lang := s.assistant.Language()
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "Question is required", "Please provide a question.")
		return
	case errors.Is(err, domain.ErrNoContent):
		writeJSON(w, http.StatusOK, envelope{
			"success":         false,
			"question":        req.Question,
			"error":           "No PDF uploaded",
			"userMessage":     i18n.Text(lang, i18n.NoContent, nil),
			"conversational":  true,
			"currentLanguage": lang,
		})
		return
	case err != nil:
		s.logger(r).Error("answer failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{
			"success":        false,
			"question":       req.Question,
			"error":          err.Error(),
			"userMessage":    i18n.Text(lang, i18n.Unprocessable, nil),
			"conversational": true,
		})
		return
	}

	if reply.Outcome == service.OutcomeNoRelevant {
		writeJSON(w, http.StatusOK, envelope{
			"success":         false,
			"question":        reply.Question,
			"error":           "No relevant content found",
			"userMessage":     reply.Answer,
			"conversational":  true,
			"found":           false,
			"currentLanguage": reply.Language,
		})
		return
	}

	refs := make([]chunkRef, len(reply.Results))
	for i, res := range reply.Results {
		refs[i] = chunkRef{ID: res.Chunk.ID, Page: res.Chunk.Page, Tag: res.Chunk.Tag, Score: res.Score, Text: res.Chunk.Text}
	}
	body := envelope{
		"success":         true,
		"question":        reply.Question,
		"answer":          reply.Answer,
		"conversational":  true,
		"relevantChunks":  refs,
		"found":           reply.Found(),
		"currentLanguage": reply.Language,
		"processingMs":    reply.Elapsed.Milliseconds(),
	}
	if reply.Strategy != "" {
		body["strategy"] = reply.Strategy
	}
	if reply.LanguageChanged {
		body["languageChanged"] = true
	}
	writeJSON(w, http.StatusOK, body)
}

type summarizeRequest struct {
	Type    string `json:"type"`
	Section string `json:"section"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	typ := service.ParseSummaryType(req.Type)
	sum, err := s.assistant.Summarize(r.Context(), typ, req.Section)
	switch {
	case errors.Is(err, domain.ErrNoContent):
		writeJSON(w, http.StatusOK, envelope{
			"success":        false,
			"error":          "No PDF uploaded",
			"userMessage":    i18n.Text(s.assistant.Language(), i18n.NoContent, nil),
			"type":           typ,
			"conversational": true,
		})
		return
	case errors.Is(err, domain.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "Section is required", "Please name the section to summarize.")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to generate summary", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":        true,
		"summary":        sum.Text,
		"type":           sum.Type,
		"totalChunks":    sum.Chunks,
		"extractive":     sum.Extractive,
		"conversational": true,
	})
}

func (s *Server) handleContent(w http.ResponseWriter, _ *http.Request) {
	items := s.assistant.Content()
	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"totalChunks": len(items),
		"chunks":      items,
	})
}

type syncChunk struct {
	ID        string     `json:"id"`
	Page      int        `json:"page"`
	Text      string     `json:"text"`
	Tag       domain.Tag `json:"tag"`
	Timestamp string     `json:"timestamp"`
	Filename  string     `json:"filename"`
}

type syncRequest struct {
	Chunks []syncChunk `json:"chunks"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req); err != nil || req.Chunks == nil {
		writeError(w, http.StatusBadRequest, "Chunks array is required", "")
		return
	}
	raw := make([]domain.Chunk, len(req.Chunks))
	for i, c := range req.Chunks {
		raw[i] = domain.Chunk{ID: c.ID, Page: c.Page, Text: c.Text, Tag: c.Tag, Filename: c.Filename}
		if ts, err := time.Parse(time.RFC3339, c.Timestamp); err == nil {
			raw[i].Timestamp = ts
		}
	}
	snap, err := s.assistant.ReplaceChunks(r.Context(), raw, "http-sync")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, envelope{"success": false, "error": "Failed to sync content", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"message":     "Content synced successfully",
		"received":    len(req.Chunks),
		"totalChunks": snap.Len(),
		"generation":  snap.Generation,
		"syncedAt":    snap.LoadedAt,
	})
}

func (s *Server) handleAdmissionInfo(w http.ResponseWriter, _ *http.Request) {
	info, err := s.assistant.AdmissionInfo()
	if errors.Is(err, domain.ErrNoContent) {
		writeJSON(w, http.StatusNotFound, envelope{
			"success": false,
			"error":   "No document processed",
			"message": "Please upload a PDF document first to extract admission information.",
		})
		return
	}
	if info.Matched == 0 {
		writeJSON(w, http.StatusOK, envelope{
			"success": true,
			"admissionInfo": envelope{
				"message":     "No specific admission information found in the document.",
				"generalInfo": "Please contact the institution directly for admission details.",
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":       true,
		"admissionInfo": info.Categories,
		"totalChunks":   info.Matched,
		"message":       "Admission information extracted successfully",
	})
}

var languageCommands = envelope{
	"english": []string{"Change language to Swahili", "Switch to Swahili", "Use Swahili"},
	"swahili": []string{"Badilisha lugha kuwa Kiingereza", "Change language to English", "Tumia Kiingereza"},
}

func (s *Server) handleGetLanguage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"success":            true,
		"currentLanguage":    s.assistant.Language(),
		"availableLanguages": []i18n.Language{i18n.English, i18n.Swahili},
		"commands":           languageCommands,
	})
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	_ = decodeJSON(r, &req)
	lang, ok := i18n.ParseLanguage(req.Language)
	if !ok {
		writeJSON(w, http.StatusBadRequest, envelope{
			"success": false,
			"error":   "Invalid language",
			"message": `Language must be either "english" or "swahili"`,
		})
		return
	}
	old := s.assistant.SetLanguage(lang)
	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"message":     i18n.Text(lang, i18n.LanguageChanged, nil),
		"oldLanguage": old,
		"newLanguage": lang,
	})
}

func (s *Server) handleLogCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command   string `json:"command"`
		Timestamp string `json:"timestamp"`
	}
	_ = decodeJSON(r, &req)
	s.logger(r).Info("client command", zap.String("command", req.Command), zap.String("client_timestamp", req.Timestamp))
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Command logged"})
}
