package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/store"
)

// --- Enquiries ---

type EnquiryInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Message string `json:"message" validate:"max=5000"`
	Source  string `json:"source" validate:"omitempty,max=100"`
}

type EnquiryStatusInput struct {
	Status domain.EnquiryStatus `json:"status" validate:"required,oneof=new read resolved"`
}

// CreateEnquiry accepts a public contact-form submission.
func (h *HTTPHandler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var input EnquiryInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		h.respondWithAppError(w, r, validationError("name is required"))
		return
	}

	created, err := h.Enquiries.CreateEnquiry(r.Context(), &domain.Enquiry{
		Name:    name,
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Message: input.Message,
		Source:  input.Source,
		Status:  domain.EnquiryNew,
	})
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to submit enquiry"))
		return
	}
	h.logger.Info("Enquiry received", zap.String("id", created.ID), zap.String("source", created.Source))
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	var status *domain.EnquiryStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.EnquiryStatus(raw)
		if s != domain.EnquiryNew && s != domain.EnquiryRead && s != domain.EnquiryResolved {
			h.respondWithAppError(w, r, validationError("status must be new, read or resolved"))
			return
		}
		status = &s
	}
	enquiries, err := h.Enquiries.ListEnquiries(r.Context(), status)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to list enquiries"))
		return
	}
	respondWithJSON(w, http.StatusOK, enquiries)
}

func (h *HTTPHandler) UpdateEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Enquiry not found")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var input EnquiryStatusInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	updated, err := h.Enquiries.UpdateEnquiryStatus(r.Context(), id, input.Status)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to update enquiry"))
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteEnquiry(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "Enquiry not found", "Failed to delete enquiry", h.Enquiries.DeleteEnquiry)
}

// --- Media ---

// maxUploadSize bounds the multipart body of an upload request.
const maxUploadSize = 20 << 20

type MediaInput struct {
	URL  string `json:"url" validate:"required,url"`
	Type string `json:"type" validate:"omitempty,max=50"`
}

// UploadResponse is returned by UploadMedia.
type UploadResponse struct {
	URL   string        `json:"url"`
	Media *domain.Media `json:"media"`
}

func (h *HTTPHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	media, err := h.Media.ListMedia(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to list media"))
		return
	}
	respondWithJSON(w, http.StatusOK, media)
}

// CreateMedia records an asset that is already hosted elsewhere.
func (h *HTTPHandler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var input MediaInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if input.Type == "" {
		input.Type = "image"
	}
	created, err := h.Media.CreateMedia(r.Context(), &domain.Media{URL: input.URL, Type: input.Type})
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to save media"))
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UploadMedia forwards the multipart "file" field to the media host and
// records the hosted URL.
func (h *HTTPHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if h.Uploader == nil {
		h.respondWithAppError(w, r, apperr.New(apperr.KindUpload, "Upload failed: media host is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindValidation, err, "Invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindValidation, err, "No file uploaded"))
		return
	}
	defer file.Close()

	url, err := h.Uploader.Upload(r.Context(), file, header.Filename)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	media, err := h.Media.CreateMedia(r.Context(), &domain.Media{URL: url, Type: "image"})
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to save media"))
		return
	}
	h.logger.Info("Media uploaded", zap.String("id", media.ID), zap.String("url", url))
	respondWithJSON(w, http.StatusCreated, UploadResponse{URL: url, Media: media})
}

// DeleteMedia removes the record. Removing the hosted asset is best
// effort: a failure there is logged and the record is deleted anyway.
func (h *HTTPHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Media not found")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	m, err := h.Media.GetMediaByID(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to retrieve media"))
		return
	}
	if h.Uploader != nil {
		if err := h.Uploader.Delete(r.Context(), m.URL); err != nil {
			h.logger.Warn("Deleting hosted asset failed", zap.String("url", m.URL), zap.Error(err))
		}
	}
	if err := h.Media.DeleteMedia(r.Context(), id); err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to delete media"))
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Settings ---

func settingKey(r *http.Request) (domain.SettingKey, error) {
	key, err := domain.ParseSettingKey(chi.URLParam(r, "key"))
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, err, "Unknown setting key")
	}
	return key, nil
}

// GetSetting serves a site setting. Unset keys and store failures both
// yield the key's empty value so the site can still render.
func (h *HTTPHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key, err := settingKey(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	setting := domain.Setting{Key: key}
	raw, updatedAt, err := h.Settings.GetSetting(r.Context(), key)
	if err == nil {
		setting.Value, err = domain.DecodeSetting(key, raw)
		if err == nil {
			setting.UpdatedAt = &updatedAt
		}
	}
	if err != nil {
		if !errors.Is(err, store.ErrSettingNotFound) {
			h.logger.Warn("Reading setting failed, serving empty value", zap.String("key", string(key)), zap.Error(err))
		}
		setting.Value, _ = domain.EmptySetting(key)
	}
	respondWithJSON(w, http.StatusOK, setting)
}

// PutSetting replaces the value of a setting. The body must decode into
// the struct registered for the key.
func (h *HTTPHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	key, err := settingKey(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	defer r.Body.Close()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindValidation, err, "Invalid request payload"))
		return
	}
	value, err := domain.DecodeSetting(key, raw)
	if err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindValidation, err, "Invalid setting value: "+err.Error()))
		return
	}
	// Store the canonical encoding so unknown fields are dropped.
	canonical, err := json.Marshal(value)
	if err != nil {
		h.respondWithAppError(w, r, apperr.Wrap(apperr.KindInternal, err, "Failed to encode setting"))
		return
	}

	updatedAt, err := h.Settings.PutSetting(r.Context(), key, canonical)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to save setting"))
		return
	}
	respondWithJSON(w, http.StatusOK, domain.Setting{Key: key, Value: value, UpdatedAt: &updatedAt})
}
