package httpapi

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stylerd/internal/stylize"
)

// Form fields and response headers of /model/predict.
const (
	fieldImage = "image"
	fieldModel = "model"

	headerModel  = "X-Style-Model"
	headerWidth  = "X-Image-Width"
	headerHeight = "X-Image-Height"

	maxModelFieldBytes = 256
)

// predictHandler stylizes an uploaded image.
//
// @Summary      Apply a style to an image
// @Description  Upload an image as multipart field "image" and pick a style with "model".
// @Tags         model
// @Accept       multipart/form-data
// @Produce      image/jpeg
// @Param        image  formData  file    true   "JPEG, PNG or TIFF image"
// @Param        model  formData  string  false  "Style (mosaic, candy, rain_princess, udnie)"  default(mosaic)
// @Success      200  {file}    binary
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Failure      504  {object}  types.ErrorResponse
// @Router       /model/predict [post]
func predictHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lvl := requestLogLevel(r)

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		raw, model, err := readUpload(r)
		if err != nil {
			status := statusFor(err)
			writeJSONError(w, status, err.Error())
			logEnd(r, lvl, model, status, time.Since(start), err)
			return
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if inferTimeout > 0 {
			var cancelTimeout context.CancelFunc
			ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(inferTimeout)*time.Second)
			defer cancelTimeout()
		}

		logStart(r, lvl, model, len(raw))
		res, err := svc.Stylize(ctx, stylize.Request{Image: raw, Model: model})
		if err != nil {
			// client went away or server is shutting down: nobody to answer
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				logEnd(r, lvl, model, 499, time.Since(start), err)
				return
			}
			status := statusFor(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("admission")
			}
			writeJSONError(w, status, err.Error())
			logEnd(r, lvl, model, status, time.Since(start), err)
			return
		}

		h := w.Header()
		h.Set("Content-Type", stylize.ContentType)
		h.Set("Content-Length", strconv.FormatInt(res.Body.Size(), 10))
		h.Set(headerModel, res.Model.String())
		h.Set(headerWidth, strconv.Itoa(res.Width))
		h.Set(headerHeight, strconv.Itoa(res.Height))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, res.Body)
		logEnd(r, lvl, res.Model.String(), http.StatusOK, time.Since(start), nil)
	}
}

// readUpload streams the multipart body and returns the image bytes and the
// model selector. The form field wins over the ?model= query parameter.
func readUpload(r *http.Request) (raw []byte, model string, err error) {
	model = r.URL.Query().Get(fieldModel)
	mt, _, perr := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if perr != nil || mt != "multipart/form-data" {
		return nil, model, requestError{http.StatusBadRequest, "Content-Type must be multipart/form-data"}
	}
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, model, requestError{http.StatusBadRequest, "malformed multipart body"}
	}
	found := false
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model, uploadError(err)
		}
		switch part.FormName() {
		case fieldImage:
			if found {
				_ = part.Close()
				return nil, model, requestError{http.StatusBadRequest, "only one image may be uploaded"}
			}
			raw, err = io.ReadAll(part)
			if err != nil {
				return nil, model, uploadError(err)
			}
			found = true
		case fieldModel:
			b, err := io.ReadAll(io.LimitReader(part, maxModelFieldBytes))
			if err != nil {
				return nil, model, uploadError(err)
			}
			if v := strings.TrimSpace(string(b)); v != "" {
				model = v
			}
		}
		_ = part.Close()
	}
	if !found {
		return nil, model, requestError{http.StatusBadRequest, "missing multipart field \"image\""}
	}
	return raw, model, nil
}

func uploadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return requestError{http.StatusRequestEntityTooLarge, "request body exceeds " + strconv.FormatInt(mbe.Limit, 10) + " bytes"}
	}
	return requestError{http.StatusBadRequest, "malformed multipart body"}
}
