package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"staymi/pkg/config"
	apperrors "staymi/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// DecodeJSON reads a single JSON object into dst. Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		case errors.As(err, &maxErr):
			return apperrors.New(apperrors.CodeBadRequest, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.As(err, &syntaxErr):
			return apperrors.InvalidInput(fmt.Sprintf("malformed JSON at position %d", syntaxErr.Offset))
		case errors.As(err, &typeErr):
			return apperrors.InvalidInput(fmt.Sprintf("invalid type for field %q", typeErr.Field))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return apperrors.InvalidInput(strings.TrimPrefix(err.Error(), "json: "))
		default:
			return apperrors.InvalidInput("invalid JSON body")
		}
	}

	if decoder.More() {
		return apperrors.InvalidInput("request body must contain a single JSON object")
	}
	return nil
}
