package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
	"github.com/julianstephens/theseus/internal/storage"
	"github.com/julianstephens/theseus/internal/validation"
)

func (s *Server) settingsRoutes(r chi.Router) {
	r.Get("/", s.listSettings)
	r.Put("/", s.putSettings)
	r.Get("/{key}", s.getSetting)
	r.Put("/{key}", s.putSetting)
}

type settingValue struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// allSettings returns the defaults overlaid with every stored pair.
func (s *Server) allSettings(r *http.Request) (map[string]*string, error) {
	stored, err := s.store.ListSettings(r.Context())
	if err != nil {
		return nil, err
	}
	out := make(map[string]*string, len(stored)+3)
	for k, v := range constants.DefaultSettings() {
		out[k] = models.String(v)
	}
	for _, st := range stored {
		out[st.Key] = st.Value
	}
	return out, nil
}

func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	all, err := s.allSettings(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// putSettings upserts every key in the body. Non-string values are stored
// as their JSON text and null clears the value.
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	values := make(map[string]*string, len(body))
	for key, raw := range body {
		if err := validation.SettingKey(key); err != nil {
			s.fail(w, r, err)
			return
		}
		values[key] = settingText(raw)
	}
	if err := s.store.PutSettings(r.Context(), values); err != nil {
		s.fail(w, r, err)
		return
	}
	s.listSettings(w, r)
}

func settingText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return &str
	}
	return models.String(string(raw))
}

// getSetting falls back to the built-in default for keys never stored.
func (s *Server) getSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	st, err := s.store.GetSetting(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		def, ok := constants.DefaultSettings()[key]
		if !ok {
			writeDetail(w, http.StatusNotFound, "Setting '"+key+"' not found")
			return
		}
		writeJSON(w, http.StatusOK, settingValue{Key: key, Value: models.String(def)})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingValue{Key: st.Key, Value: st.Value})
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := validation.SettingKey(key); err != nil {
		s.fail(w, r, err)
		return
	}
	var req settingValue
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.store.PutSetting(r.Context(), key, req.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingValue{Key: st.Key, Value: st.Value})
}
