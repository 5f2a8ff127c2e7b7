package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies; every payload here is a handful of short fields.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. An empty body decodes to the
// zero value. A value of the wrong JSON type is reported on its own field;
// any other malformed JSON is reported as an invalid "body" field.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.InvalidField(typeErr.Field, fmt.Sprintf("O campo %s possui um tipo inválido.", typeErr.Field))
		}
		return apperr.InvalidField("body", "O corpo da requisição deve ser um JSON válido.")
	}
	return nil
}

// PathID reads the numeric chi URL parameter name. Anything that is not a
// positive integer cannot identify a row, so it is reported as notFound.
func PathID(r *http.Request, name, notFound string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(notFound)
	}
	return id, nil
}
