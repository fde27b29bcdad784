package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/heritagecrafts/platform/backend/internal/application/services"
)

// TranslationHandler handles translation HTTP requests
type TranslationHandler struct {
	translationService *services.TranslationService
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(translationService *services.TranslationService) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
	}
}

type translateRequest struct {
	Text        string   `json:"text"`
	SourceLang  string   `json:"source_lang"`
	TargetLang  string   `json:"target_lang,omitempty"`
	TargetLangs []string `json:"target_langs,omitempty"`
}

// Translate handles POST /api/translate. A single target language
// returns one translation; a target_langs list runs a bounded batch.
func (h *TranslationHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.TargetLang == "" && len(req.TargetLangs) == 0 {
		respondWithError(w, http.StatusBadRequest, "target_lang or target_langs is required")
		return
	}

	if len(req.TargetLangs) > 0 {
		translations, err := h.translationService.BatchTranslate(r.Context(), req.Text, req.SourceLang, req.TargetLangs)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"translations": translations,
		})
		return
	}

	translated, err := h.translationService.Translate(r.Context(), req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"translated_text": translated,
	})
}

type detectRequest struct {
	Text string `json:"text"`
}

// DetectLanguage handles POST /api/translate/detect
func (h *TranslationHandler) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	lang, err := h.translationService.DetectLanguage(r.Context(), req.Text)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"language": lang,
	})
}
