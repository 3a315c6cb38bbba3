package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
)

// maxBodySize обмежує розмір тіла запиту
const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor відображає помилку на HTTP-статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotEditable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Заголовки вже надіслано, тож помилку кодування клієнту не повідомити
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON читає тіло запиту; помилки формату стають помилками валідації
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// present виводить колір зі статусу для кожної місії у відповіді
func present(missions []domain.Mission) []domain.Mission {
	out := make([]domain.Mission, len(missions))
	for i, m := range missions {
		out[i] = m.WithStatusColor()
	}
	return out
}
