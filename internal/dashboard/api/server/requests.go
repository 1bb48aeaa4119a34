package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const maxBody = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))

	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return validate.Errorf("request body is larger than %d bytes", mbe.Limit)
		}

		return validate.Errorf("decode error: %s", err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	var id int64

	err := runtime.BindStyledParameterWithLocation("simple", false, name,
		runtime.ParamLocationPath, chi.URLParam(r, name), &id)
	if err != nil {
		return 0, validate.Errorf("invalid %s: %s", name, err)
	}

	if id <= 0 {
		return 0, validate.Errorf("invalid %s: must be positive", name)
	}

	return id, nil
}

func pathString(r *http.Request, name string) (string, error) {
	var v string

	err := runtime.BindStyledParameterWithLocation("simple", false, name,
		runtime.ParamLocationPath, chi.URLParam(r, name), &v)
	if err != nil {
		return "", validate.Errorf("invalid %s: %s", name, err)
	}

	return v, nil
}

// query binds an optional form-style query parameter into dest, which must
// be a pointer to a pointer.
func query(r *http.Request, name string, explode bool, dest interface{}) error {
	if err := runtime.BindQueryParameter("form", explode, false, name, r.URL.Query(), dest); err != nil {
		return validate.Errorf("invalid %s: %s", name, err)
	}

	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	var v *int
	if err := query(r, name, true, &v); err != nil || v == nil {
		return 0, err
	}

	return *v, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	var v *int64
	if err := query(r, name, true, &v); err != nil || v == nil {
		return 0, err
	}

	return *v, nil
}

func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := query(r, name, true, &v); err != nil || v == nil {
		return "", err
	}

	return *v, nil
}

func queryList(r *http.Request, name string) ([]string, error) {
	var v *[]string
	if err := query(r, name, false, &v); err != nil || v == nil {
		return nil, err
	}

	return *v, nil
}
