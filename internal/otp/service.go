package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/auth"
	"github.com/rasoilink/rasoilink-backend/pkg/auth/session"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
	redisclient "github.com/rasoilink/rasoilink-backend/pkg/redis"
)

var phonePattern = regexp.MustCompile(`^\+91[6-9]\d{9}$`)

// ServiceParams groups dependencies for the OTP auth service.
type ServiceParams struct {
	Store     codeStore
	Keys      codeKeyer
	Users     userStore
	Vendors   vendorFinder
	Suppliers supplierFinder
	Sessions  sessionCreator
	Sender    SMSSender
	JWT       config.JWTConfig
	OTP       config.OTPConfig
	Logger    *logger.Logger
	Now       func() time.Time
	GenCode   func() (string, error)
}

// Service exposes phone OTP issuance and verification.
type Service interface {
	Request(ctx context.Context, phone string) (RequestResultDTO, error)
	Verify(ctx context.Context, phone, code string) (VerifyResultDTO, error)
}

type service struct {
	store     codeStore
	keys      codeKeyer
	users     userStore
	vendors   vendorFinder
	suppliers supplierFinder
	sessions  sessionCreator
	sender    SMSSender
	jwt       config.JWTConfig
	otp       config.OTPConfig
	logg      *logger.Logger
	now       func() time.Time
	genCode   func() (string, error)
}

// NewService builds the OTP auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil || params.Keys == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp store is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user store is required")
	}
	if params.Vendors == nil || params.Suppliers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile finders are required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sms sender is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.OTP.TTL <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp ttl must be positive")
	}
	if params.OTP.MaxAttempts <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp max attempts must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	genCode := params.GenCode
	if genCode == nil {
		genCode = randomCode
	}
	return &service{
		store:     params.Store,
		keys:      params.Keys,
		users:     params.Users,
		vendors:   params.Vendors,
		suppliers: params.Suppliers,
		sessions:  params.Sessions,
		sender:    params.Sender,
		jwt:       params.JWT,
		otp:       params.OTP,
		logg:      params.Logger,
		now:       now,
		genCode:   genCode,
	}, nil
}

// Request issues a fresh 6-digit code for the phone number. A new
// request replaces any outstanding code and resets the attempt counter.
func (s *service) Request(ctx context.Context, phone string) (RequestResultDTO, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return RequestResultDTO{}, err
	}

	code, err := s.genCode()
	if err != nil {
		return RequestResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}

	if err := s.store.Set(ctx, s.keys.OTPKey(normalized), code, s.otp.TTL); err != nil {
		return RequestResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	if err := s.store.Del(ctx, s.keys.OTPAttemptsKey(normalized)); err != nil {
		return RequestResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset otp attempts")
	}

	message := fmt.Sprintf("RasoiLink OTP: %s. %d minute mein expire hoga. Kisi se share na karein.",
		code, int(s.otp.TTL.Minutes()))
	if err := s.sender.Send(ctx, normalized, message); err != nil {
		return RequestResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp sms")
	}

	return RequestResultDTO{
		Phone:     normalized,
		ExpiresIn: int(s.otp.TTL.Seconds()),
	}, nil
}

// Verify consumes the code and returns a minted access token for the
// user behind the phone number, creating the user row on first login.
func (s *service) Verify(ctx context.Context, phone, code string) (VerifyResultDTO, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return VerifyResultDTO{}, err
	}
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "code must be 6 digits")
	}

	attempts, err := s.store.IncrWithTTL(ctx, s.keys.OTPAttemptsKey(normalized), s.otp.TTL)
	if err != nil {
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count otp attempts")
	}
	if attempts > int64(s.otp.MaxAttempts) {
		return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "too many attempts, request a new code")
	}

	stored, err := s.store.Get(ctx, s.keys.OTPKey(normalized))
	if err != nil {
		if isMissingKey(err) {
			return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "code expired or was never requested")
		}
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return VerifyResultDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect code")
	}

	if err := s.store.Del(ctx, s.keys.OTPKey(normalized), s.keys.OTPAttemptsKey(normalized)); err != nil {
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume otp")
	}

	user, err := s.users.FindOrCreateByPhone(ctx, normalized)
	if err != nil {
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	payload := auth.AccessTokenPayload{UserID: user.ID}
	if user.Role != nil {
		payload.Role = *user.Role
	}
	result := VerifyResultDTO{
		User: UserDTO{ID: user.ID, Phone: user.Phone, Role: user.Role},
	}

	vendor, err := s.vendors.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		payload.VendorID = &vendor.ID
		payload.Zone = &vendor.Zone
		payload.Language = &vendor.Language
		result.User.VendorID = &vendor.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}

	supplier, err := s.suppliers.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		payload.SupplierID = &supplier.ID
		result.User.SupplierID = &supplier.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier profile")
	}

	accessID := session.NewAccessID()
	payload.JTI = accessID

	token, err := auth.MintAccessToken(s.jwt, s.now(), payload)
	if err != nil {
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Create(ctx, accessID, user.ID); err != nil {
		return VerifyResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	result.Token = token
	return result, nil
}

// NormalizePhone canonicalizes Indian mobile numbers to +91XXXXXXXXXX.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if len(cleaned) == 10 {
		cleaned = "+91" + cleaned
	}
	if !phonePattern.MatchString(cleaned) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid Indian mobile number")
	}
	return cleaned, nil
}

func isMissingKey(err error) bool {
	return redisclient.IsNil(err)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
