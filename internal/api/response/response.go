package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// retryAfterSeconds é sugerido ao cliente nas respostas 503 (lock ou falha transitória).
const retryAfterSeconds = "1"

// JSON escreve data com o status informado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil && log != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz err para o corpo padronizado de erro e o escreve.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	resp := apperror.MapToHTTPStatus(err)

	if log != nil {
		if resp.Code >= 500 {
			log.Error(fmt.Sprintf("Erro de Servidor: %s", resp.Category), err)
		} else {
			log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", resp.Code, resp.Category), map[string]interface{}{"path": r.URL.Path})
		}
	}

	if resp.Code == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}
	JSON(w, nil, resp.Code, resp)
}

// Decode lê o corpo JSON da requisição, rejeitando campos desconhecidos.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// ListFilter lê limit, offset e warehouse_id da query string.
func ListFilter(r *http.Request) (domain.ListFilter, error) {
	q := r.URL.Query()
	filter := domain.ListFilter{WarehouseID: q.Get("warehouse_id")}

	var err error
	if filter.Limit, err = queryInt(q.Get("limit")); err != nil {
		return domain.ListFilter{}, apperror.NewFieldValidationError("limit", "limit deve ser um inteiro.")
	}
	if filter.Offset, err = queryInt(q.Get("offset")); err != nil {
		return domain.ListFilter{}, apperror.NewFieldValidationError("offset", "offset deve ser um inteiro.")
	}
	return filter.Normalize(), nil
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
