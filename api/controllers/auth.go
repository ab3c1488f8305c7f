package controllers

import (
	"net/http"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/otp"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

type otpRequestBody struct {
	Phone string `json:"phone" validate:"required"`
}

type otpVerifyBody struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6"`
}

// OTPRequest issues a one-time code to the phone number.
func OTPRequest(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otpRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Request(r.Context(), body.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OTPVerify exchanges the code for an access token.
func OTPVerify(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otpVerifyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Verify(r.Context(), body.Phone, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
