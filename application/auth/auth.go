package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/blipwear/blip-server/cmd/config"
	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	otprepo "github.com/blipwear/blip-server/repository/otp"
	redisrepo "github.com/blipwear/blip-server/repository/redis"
	txrepo "github.com/blipwear/blip-server/repository/tx"
	userrepo "github.com/blipwear/blip-server/repository/user"
	"github.com/blipwear/blip-server/utils/errors"
	"github.com/blipwear/blip-server/utils/logger"
)

type AuthApp interface {
	RequestOTP(ctx context.Context, req *model.RequestOTPRequest) (*model.RequestOTPResponse, error)
	VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.VerifyOTPResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (uint64, error)
	Logout(ctx context.Context, tokenString string) error
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
	SetPassword(ctx context.Context, userID uint64, req *model.SetPasswordRequest) error
	EnsureAdminUser(ctx context.Context) error
}

type AuthAppImpl struct {
	config    *config.Config
	txRepo    txrepo.TxRepository
	otpRepo   otprepo.OTPRepository
	userRepo  userrepo.UserRepository
	redisRepo redisrepo.Repository
}

func NewAuthApp(config *config.Config, txRepo txrepo.TxRepository, otpRepo otprepo.OTPRepository, userRepo userrepo.UserRepository, redisRepo redisrepo.Repository) AuthApp {
	return &AuthAppImpl{
		config:    config,
		txRepo:    txRepo,
		otpRepo:   otpRepo,
		userRepo:  userRepo,
		redisRepo: redisRepo,
	}
}

// Default admin seeded on first boot, matching the original deployment.
const (
	defaultAdminEmail    = "admin@blip.com"
	defaultAdminPassword = "admin123"
)

// RequestOTP issues a fresh 6-digit code for the identifier. The
// delete-then-insert pair runs in one transaction so concurrent issuance
// leaves exactly one active code. The code is only written to the log;
// delivery is out of band and the response never carries it.
func (s *AuthAppImpl) RequestOTP(ctx context.Context, req *model.RequestOTPRequest) (*model.RequestOTPResponse, error) {
	code, err := generateCode()
	if err != nil {
		logger.Error("[RequestOTP] err generateCode", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	entity := &model.OTPEntity{
		EmailOrPhone: req.EmailOrPhone,
		Code:         code,
		ExpiresAt:    time.Now().Add(s.config.OTP.Expiration),
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[RequestOTP] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.otpRepo.ReplaceTx(ctx, tx, entity); err != nil {
		logger.Error("[RequestOTP] err otpRepo.ReplaceTx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[RequestOTP] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	// Stand-in for SMS/email delivery.
	logger.Info("OTP issued", zap.String("identifier", req.EmailOrPhone), zap.String("otp", code))

	return &model.RequestOTPResponse{
		Message: "OTP sent successfully (check server log in development)",
	}, nil
}

// VerifyOTP consumes the submitted code, resolves or creates the account and
// mints a session token. The matched row is deleted whether the code turns
// out valid or expired, so a code can be consumed by at most one verify
// call. Wrong, missing and expired codes are indistinguishable to the
// caller.
func (s *AuthAppImpl) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	valid, err := s.consumeOTP(ctx, req.EmailOrPhone, req.OTP)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, errors.SetCustomError(constant.ErrInvalidOTP)
	}

	user, isNew, err := s.resolveOrCreate(ctx, req.EmailOrPhone, req.Name)
	if err != nil {
		return nil, err
	}

	token, jti, err := s.generateJWT(user)
	if err != nil {
		logger.Error("[VerifyOTP] err generateJWT", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.redisRepo.SetSession(ctx, jti, user.ID, s.config.Auth.SessionExpTime); err != nil {
		logger.Error("[VerifyOTP] err SetSession", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.VerifyOTPResponse{
		Token: token,
		User: model.UserPayload{
			ID:        user.ID,
			Name:      user.Name,
			Email:     derefString(user.Email),
			Phone:     derefString(user.Phone),
			IsNewUser: isNew,
		},
	}, nil
}

// consumeOTP runs the match-and-delete in one transaction with a row lock,
// so a code observed by one verify call is gone before a second can see it.
func (s *AuthAppImpl) consumeOTP(ctx context.Context, emailOrPhone, code string) (bool, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[VerifyOTP] begin tx", zap.String("error", err.Error()))
		return false, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	entity, err := s.otpRepo.GetForUpdateTx(ctx, tx, emailOrPhone, code)
	if err != nil {
		logger.Error("[VerifyOTP] err otpRepo.GetForUpdateTx", zap.String("error", err.Error()))
		return false, errors.SetCustomError(constant.ErrInternal)
	}
	if entity == nil {
		return false, nil
	}

	// One-time use: the row goes away on success and on expiry alike.
	if err := s.otpRepo.DeleteTx(ctx, tx, entity.ID); err != nil {
		logger.Error("[VerifyOTP] err otpRepo.DeleteTx", zap.String("error", err.Error()))
		return false, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[VerifyOTP] commit tx", zap.String("error", err.Error()))
		return false, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	return entity.ExpiresAt.After(time.Now()), nil
}

// resolveOrCreate maps a verified identifier to an account. Identifiers
// containing '@' land in the email slot, everything else is a phone number.
// New accounts start without a credential; SetPassword fills it in later.
func (s *AuthAppImpl) resolveOrCreate(ctx context.Context, identifier, name string) (*model.UserEntity, bool, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{Identifier: identifier})
	if err != nil {
		logger.Error("[VerifyOTP] err userRepo.Get", zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}
	if user != nil {
		return user, false, nil
	}

	if name == "" {
		return nil, false, errors.SetCustomError(constant.ErrNameRequired)
	}

	entity := &model.UserEntity{
		Name:     name,
		Verified: true,
	}
	if isEmail(identifier) {
		entity.Email = &identifier
	} else {
		entity.Phone = &identifier
	}

	created, err := s.userRepo.Create(ctx, entity)
	if err != nil {
		logger.Error("[VerifyOTP] err userRepo.Create", zap.String("error", err.Error()))
		return nil, false, errors.SetCustomError(constant.ErrInternal)
	}

	return created, true, nil
}

func (s *AuthAppImpl) ValidateToken(ctx context.Context, tokenString string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token")
	}

	jti := claims.ID
	if jti == "" {
		return 0, fmt.Errorf("token missing jti")
	}

	redisUserID, err := s.redisRepo.GetSession(ctx, jti)
	if err != nil {
		return 0, fmt.Errorf("invalid or expired session")
	}
	if redisUserID != userID {
		return 0, fmt.Errorf("token does not match user session")
	}

	return userID, nil
}

// Logout revokes the token's session. The JWT itself stays valid until it
// expires, but without the Redis session ValidateToken rejects it.
func (s *AuthAppImpl) Logout(ctx context.Context, tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}

	if err := s.redisRepo.DeleteSession(ctx, claims.ID); err != nil {
		logger.Error("[Logout] err DeleteSession", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	return nil
}

func (s *AuthAppImpl) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[IsAdmin] err userRepo.Get", zap.String("error", err.Error()))
		return false, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return false, nil
	}
	return user.IsAdmin, nil
}

// SetPassword stores a bcrypt credential for an OTP-created account.
func (s *AuthAppImpl) SetPassword(ctx context.Context, userID uint64, req *model.SetPasswordRequest) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("[SetPassword] err bcrypt.GenerateFromPassword", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		logger.Error("[SetPassword] err userRepo.UpdatePassword", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// EnsureAdminUser seeds the default admin account on an empty install.
func (s *AuthAppImpl) EnsureAdminUser(ctx context.Context) error {
	exists, err := s.userRepo.AdminExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	email := defaultAdminEmail
	_, err = s.userRepo.Create(ctx, &model.UserEntity{
		Name:         "Admin",
		Email:        &email,
		PasswordHash: string(hashed),
		Verified:     true,
		IsAdmin:      true,
	})
	if err != nil {
		return err
	}

	logger.Warn("default admin created, change its password", zap.String("email", defaultAdminEmail))
	return nil
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// generateJWT creates a 7-day session token embedding the user's identity
// and a jti that is tracked in Redis.
func (s *AuthAppImpl) generateJWT(user *model.UserEntity) (string, string, error) {
	newUUID, _ := uuid.NewRandom()
	claims := sessionClaims{
		Name:  user.Name,
		Email: derefString(user.Email),
		Phone: derefString(user.Phone),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.Auth.JWTExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        newUUID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims.ID, nil
}

// generateCode draws a uniform 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}

// isEmail checks if identifier looks like an email
func isEmail(identifier string) bool {
	for _, r := range identifier {
		if r == '@' {
			return true
		}
	}
	return false
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
