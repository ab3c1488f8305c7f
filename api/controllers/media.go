package controllers

import (
	"net/http"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
	"github.com/rasoilink/rasoilink-backend/pkg/storage/gcs"
)

// MediaSigner is the slice of the storage client media uploads need.
type MediaSigner interface {
	SignedUploadURL(object, contentType string) (string, error)
	PublicURL(object string) string
}

type mediaUploadBody struct {
	Filename    string `json:"filename" validate:"required,min=1,max=200"`
	ContentType string `json:"content_type" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=delivery_proof item_photo"`
}

type mediaUploadResult struct {
	UploadURL string `json:"upload_url"`
	Object    string `json:"object"`
	PublicURL string `json:"public_url"`
}

// MediaUploadURL hands out a short-lived signed PUT URL for proof and
// item photo uploads.
func MediaUploadURL(signer MediaSigner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := requireIdentity(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body mediaUploadBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prefix := gcs.ItemPhotoPrefix
		if body.Kind == "delivery_proof" {
			prefix = gcs.ProofPrefix
		}
		object := gcs.NewObjectPath(prefix, body.Filename)

		uploadURL, err := signer.SignedUploadURL(object, body.ContentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url"))
			return
		}

		responses.WriteSuccess(w, mediaUploadResult{
			UploadURL: uploadURL,
			Object:    object,
			PublicURL: signer.PublicURL(object),
		})
	}
}
