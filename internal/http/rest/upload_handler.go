package rest

import (
	"errors"
	"net/http"

	"github.com/smartcircular/api/util"
	"github.com/smartcircular/api/util/tracing"
	"github.com/smartcircular/api/util/values"
)

const maxUploadSize = 10 << 20 // 10 MiB

// UploadImage accepts a multipart form with a single "image" field and stores
// it with the configured media backend, returning the hosted URL. The caller
// passes that URL back in the report submission.
func (api *API) UploadImage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	if api.Uploads == nil {
		return respondWithError(errors.New("media storage is not configured"), "image uploads are disabled", values.Error, &tc)
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return respondWithError(err, "unable to parse upload", values.BadRequestBody, &tc)
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return respondWithError(err, "missing image file", values.BadRequestBody, &tc)
	}
	defer file.Close()

	url, err := api.Uploads.UploadImage(r.Context(), file, "reports")
	if err != nil {
		return respondWithError(err, "error uploading image", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Image uploaded successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       map[string]string{"url": url},
	}
}
