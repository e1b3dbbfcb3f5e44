package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"propadvisor/internal/advisor"
	"propadvisor/pkg/types"
)

// multipartMemory is the in-memory share of a parsed multipart form; larger
// parts spill to temporary files.
const multipartMemory = 8 << 20

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// decodeJSONBody reads a JSON object into dst. Keys named in required must be
// present and non-null. validate runs on the decoded dst even when keys are
// missing or mistyped, so every bad field is reported in one ValidationError.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, newDst func() any, required []string, validate func() error) error {
	if mediaType(r) != "application/json" {
		return errUnsupportedMedia("Content-Type must be application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isTooLarge(err) {
			return errTooLarge(fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
		}
		return errBadRequest("failed to read request body")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return errBadRequest("invalid JSON body")
	}

	ve := &advisor.ValidationError{}
	for _, k := range required {
		v, ok := raw[k]
		if !ok || strings.TrimSpace(string(v)) == "null" {
			ve.Add(k)
		}
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		one, _ := json.Marshal(map[string]json.RawMessage{k: raw[k]})
		var te *json.UnmarshalTypeError
		if err := json.Unmarshal(one, newDst()); errors.As(err, &te) {
			ve.Add(k)
		}
	}
	// mistyped keys are skipped and the rest of dst is still filled
	var te *json.UnmarshalTypeError
	if err := json.Unmarshal(body, dst); err != nil && !errors.As(err, &te) {
		return errBadRequest("invalid JSON body")
	}
	if err := mergeValidation(ve, validate()); err != nil {
		return err
	}
	return ve.Err()
}

// mergeValidation adds the fields of a ValidationError to ve. Other errors
// are returned as-is.
func mergeValidation(ve *advisor.ValidationError, err error) error {
	if err == nil {
		return nil
	}
	var more *advisor.ValidationError
	if !errors.As(err, &more) {
		return err
	}
	for _, f := range more.Fields {
		ve.Add(f)
	}
	return nil
}

// formReader reads typed form fields, recording missing or malformed ones.
type formReader struct {
	r  *http.Request
	ve *advisor.ValidationError
}

func (f *formReader) value(key string) (string, bool) {
	vs, ok := f.r.Form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

func (f *formReader) str(key string) string {
	v, ok := f.value(key)
	if !ok {
		f.ve.Add(key)
	}
	return v
}

func (f *formReader) integer(key string) int {
	v, ok := f.value(key)
	if !ok || v == "" {
		f.ve.Add(key)
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.ve.Add(key)
	}
	return n
}

func (f *formReader) number(key string) float64 {
	v, ok := f.value(key)
	if !ok || v == "" {
		f.ve.Add(key)
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.ve.Add(key)
	}
	return n
}

// optNumber returns nil when the field is absent or blank.
func (f *formReader) optNumber(key string) *float64 {
	v, ok := f.value(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.ve.Add(key)
		return nil
	}
	return &n
}

func (f *formReader) property() types.PropertyInfo {
	return types.PropertyInfo{
		PropertyID:   f.integer("propertyId"),
		Name:         f.str("name"),
		Address:      f.str("address"),
		PropertyType: f.str("propertyType"),
		Floor:        f.integer("floor"),
		BuiltYear:    f.integer("builtYear"),
		Area:         f.integer("area"),
		MarketPrice:  f.optNumber("marketPrice"),
		Deposit:      f.optNumber("deposit"),
		MonthlyRent:  f.optNumber("monthlyRent"),
	}
}

// parseForm parses a multipart (or urlencoded) body and returns a reader for
// its fields plus the uploaded `files`.
func parseForm(w http.ResponseWriter, r *http.Request, endpoint string) (*formReader, []types.Attachment, error) {
	mt := mediaType(r)
	if mt != "multipart/form-data" && mt != "application/x-www-form-urlencoded" {
		return nil, nil, errUnsupportedMedia("Content-Type must be multipart/form-data")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var err error
	if mt == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		if isTooLarge(err) {
			return nil, nil, errTooLarge(fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
		}
		return nil, nil, errBadRequest("invalid form body: " + err.Error())
	}
	fr := &formReader{r: r, ve: &advisor.ValidationError{}}
	if r.MultipartForm == nil {
		return fr, nil, nil
	}
	headers := r.MultipartForm.File["files"]
	files := make([]types.Attachment, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxFileBytes {
			return nil, nil, errTooLarge(fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, maxFileBytes))
		}
		att := types.Attachment{Filename: fh.Filename}
		if fd, err := fh.Open(); err != nil {
			att.ReadErr = err
		} else {
			att.Content, att.ReadErr = io.ReadAll(io.LimitReader(fd, maxFileBytes))
			_ = fd.Close()
		}
		attachmentBytes.WithLabelValues(endpoint).Observe(float64(len(att.Content)))
		files = append(files, att)
	}
	return fr, files, nil
}
