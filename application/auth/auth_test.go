package auth_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	appauth "github.com/blipwear/blip-server/application/auth"
	"github.com/blipwear/blip-server/cmd/config"
	"github.com/blipwear/blip-server/constant"
	otpmocks "github.com/blipwear/blip-server/mocks/repository/otp"
	redismocks "github.com/blipwear/blip-server/mocks/repository/redis"
	txmocks "github.com/blipwear/blip-server/mocks/repository/tx"
	usermocks "github.com/blipwear/blip-server/mocks/repository/user"
	"github.com/blipwear/blip-server/model"
	cerr "github.com/blipwear/blip-server/utils/errors"
)

func authConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test_secret",
			JWTExpiration:  time.Hour,
			SessionExpTime: time.Hour,
		},
		OTP: config.OTPConfig{
			Expiration: 15 * time.Minute,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestAuthApp_RequestOTP(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	otpRepo := otpmocks.NewOTPRepository(t)
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	tx := &sqlx.Tx{}
	txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
	txRepo.On("CommitTx", tx).Return(nil).Once()

	otpRepo.On("ReplaceTx", mock.Anything, tx, mock.MatchedBy(func(entity *model.OTPEntity) bool {
		if entity.EmailOrPhone != "a@b.com" || len(entity.Code) != 6 {
			return false
		}
		n, err := strconv.Atoi(entity.Code)
		if err != nil || n < 100000 || n > 999999 {
			return false
		}
		return entity.ExpiresAt.After(time.Now().Add(14 * time.Minute))
	})).Return(nil).Once()

	app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)

	got, err := app.RequestOTP(context.Background(), &model.RequestOTPRequest{EmailOrPhone: "a@b.com"})
	if err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	if got.Message == "" {
		t.Fatal("RequestOTP() message should not be empty")
	}
}

func TestAuthApp_VerifyOTP(t *testing.T) {
	type fields struct {
		txRepo    *txmocks.TxRepository
		otpRepo   *otpmocks.OTPRepository
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}
	type args struct {
		ctx context.Context
		req *model.VerifyOTPRequest
	}
	tests := []struct {
		name      string
		fields    fields
		args      args
		mockCall  func(f fields)
		wantIsNew bool
		wantErr   bool
		errCode   constant.ErrorType
	}{
		{
			name: "success: existing user logs in, code deleted",
			fields: fields{
				txRepo:    txmocks.NewTxRepository(t),
				otpRepo:   otpmocks.NewOTPRepository(t),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.VerifyOTPRequest{EmailOrPhone: "a@b.com", OTP: "123456"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.otpRepo.On("GetForUpdateTx", mock.Anything, tx, "a@b.com", "123456").Return(&model.OTPEntity{
					ID:           9,
					EmailOrPhone: "a@b.com",
					Code:         "123456",
					ExpiresAt:    time.Now().Add(10 * time.Minute),
				}, nil).Once()
				f.otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()

				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Identifier: "a@b.com"}).Return(&model.UserEntity{
					ID:    1,
					Name:  "Asha",
					Email: strPtr("a@b.com"),
				}, nil).Once()

				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).Return(nil).Once()
			},
			wantIsNew: false,
			wantErr:   false,
		},
		{
			name: "error: no matching code",
			fields: fields{
				txRepo:    txmocks.NewTxRepository(t),
				otpRepo:   otpmocks.NewOTPRepository(t),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.VerifyOTPRequest{EmailOrPhone: "a@b.com", OTP: "000000"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.otpRepo.On("GetForUpdateTx", mock.Anything, tx, "a@b.com", "000000").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidOTP,
		},
		{
			name: "error: expired code is rejected but still consumed",
			fields: fields{
				txRepo:    txmocks.NewTxRepository(t),
				otpRepo:   otpmocks.NewOTPRepository(t),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.VerifyOTPRequest{EmailOrPhone: "a@b.com", OTP: "123456"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.otpRepo.On("GetForUpdateTx", mock.Anything, tx, "a@b.com", "123456").Return(&model.OTPEntity{
					ID:           9,
					EmailOrPhone: "a@b.com",
					Code:         "123456",
					ExpiresAt:    time.Now().Add(-time.Minute),
				}, nil).Once()
				// the row is deleted even though the code is past its window
				f.otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidOTP,
		},
		{
			name: "error: new identifier without a name",
			fields: fields{
				txRepo:    txmocks.NewTxRepository(t),
				otpRepo:   otpmocks.NewOTPRepository(t),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.VerifyOTPRequest{EmailOrPhone: "9876543210", OTP: "123456"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.otpRepo.On("GetForUpdateTx", mock.Anything, tx, "9876543210", "123456").Return(&model.OTPEntity{
					ID:        9,
					ExpiresAt: time.Now().Add(10 * time.Minute),
				}, nil).Once()
				f.otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()

				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Identifier: "9876543210"}).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNameRequired,
		},
		{
			name: "success: new email identifier lands in the email slot",
			fields: fields{
				txRepo:    txmocks.NewTxRepository(t),
				otpRepo:   otpmocks.NewOTPRepository(t),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.VerifyOTPRequest{Name: "Asha", EmailOrPhone: "new@b.com", OTP: "123456"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.otpRepo.On("GetForUpdateTx", mock.Anything, tx, "new@b.com", "123456").Return(&model.OTPEntity{
					ID:        9,
					ExpiresAt: time.Now().Add(10 * time.Minute),
				}, nil).Once()
				f.otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()

				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Identifier: "new@b.com"}).Return(nil, nil).Once()
				f.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(entity *model.UserEntity) bool {
					return entity.Name == "Asha" && entity.Verified &&
						entity.Email != nil && *entity.Email == "new@b.com" && entity.Phone == nil
				})).Return(&model.UserEntity{ID: 2, Name: "Asha", Email: strPtr("new@b.com"), Verified: true}, nil).Once()

				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(2), time.Hour).Return(nil).Once()
			},
			wantIsNew: true,
			wantErr:   false,
		},
		{
			name: "success: new phone identifier lands in the phone slot",
			fields: fields{
				txRepo:    txmocks.NewTxRepository(t),
				otpRepo:   otpmocks.NewOTPRepository(t),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.VerifyOTPRequest{Name: "Ravi", EmailOrPhone: "9876543210", OTP: "123456"},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.otpRepo.On("GetForUpdateTx", mock.Anything, tx, "9876543210", "123456").Return(&model.OTPEntity{
					ID:        9,
					ExpiresAt: time.Now().Add(10 * time.Minute),
				}, nil).Once()
				f.otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()

				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Identifier: "9876543210"}).Return(nil, nil).Once()
				f.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(entity *model.UserEntity) bool {
					return entity.Name == "Ravi" &&
						entity.Phone != nil && *entity.Phone == "9876543210" && entity.Email == nil
				})).Return(&model.UserEntity{ID: 3, Name: "Ravi", Phone: strPtr("9876543210"), Verified: true}, nil).Once()

				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(3), time.Hour).Return(nil).Once()
			},
			wantIsNew: true,
			wantErr:   false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := appauth.NewAuthApp(authConfig(), tt.fields.txRepo, tt.fields.otpRepo, tt.fields.userRepo, tt.fields.redisRepo)

			got, err := app.VerifyOTP(tt.args.ctx, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyOTP() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				return
			}

			if got.Token == "" {
				t.Fatal("VerifyOTP() token should not be empty")
			}
			if got.User.IsNewUser != tt.wantIsNew {
				t.Fatalf("IsNewUser = %v, want %v", got.User.IsNewUser, tt.wantIsNew)
			}
		})
	}
}

func TestAuthApp_ValidateToken(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	otpRepo := otpmocks.NewOTPRepository(t)
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	tx := &sqlx.Tx{}
	txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
	txRepo.On("CommitTx", tx).Return(nil).Once()

	otpRepo.On("GetForUpdateTx", mock.Anything, tx, "a@b.com", "123456").Return(&model.OTPEntity{
		ID:        9,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil).Once()
	otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()

	userRepo.On("Get", mock.Anything, &model.UserFilter{Identifier: "a@b.com"}).Return(&model.UserEntity{
		ID:    1,
		Name:  "Asha",
		Email: strPtr("a@b.com"),
	}, nil).Once()

	var jti string
	redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).
		Run(func(args mock.Arguments) { jti = args.String(1) }).
		Return(nil).Once()

	app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)

	got, err := app.VerifyOTP(context.Background(), &model.VerifyOTPRequest{EmailOrPhone: "a@b.com", OTP: "123456"})
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	t.Run("token with live session resolves the user", func(t *testing.T) {
		redisRepo.On("GetSession", mock.Anything, jti).Return(uint64(1), nil).Once()

		userID, err := app.ValidateToken(context.Background(), got.Token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if userID != 1 {
			t.Fatalf("ValidateToken() userID = %d, want 1", userID)
		}
	})

	t.Run("token rejected when session maps to another user", func(t *testing.T) {
		redisRepo.On("GetSession", mock.Anything, jti).Return(uint64(2), nil).Once()

		if _, err := app.ValidateToken(context.Background(), got.Token); err == nil {
			t.Fatal("ValidateToken() expected error for mismatched session")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := app.ValidateToken(context.Background(), "not-a-jwt"); err == nil {
			t.Fatal("ValidateToken() expected error for malformed token")
		}
	})
}

func TestAuthApp_Logout(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	otpRepo := otpmocks.NewOTPRepository(t)
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	tx := &sqlx.Tx{}
	txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
	txRepo.On("CommitTx", tx).Return(nil).Once()

	otpRepo.On("GetForUpdateTx", mock.Anything, tx, "a@b.com", "123456").Return(&model.OTPEntity{
		ID:        9,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil).Once()
	otpRepo.On("DeleteTx", mock.Anything, tx, uint64(9)).Return(nil).Once()

	userRepo.On("Get", mock.Anything, &model.UserFilter{Identifier: "a@b.com"}).Return(&model.UserEntity{
		ID:    1,
		Name:  "Asha",
		Email: strPtr("a@b.com"),
	}, nil).Once()

	var jti string
	redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).
		Run(func(args mock.Arguments) { jti = args.String(1) }).
		Return(nil).Once()

	app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)

	got, err := app.VerifyOTP(context.Background(), &model.VerifyOTPRequest{EmailOrPhone: "a@b.com", OTP: "123456"})
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	t.Run("revokes the session behind the token", func(t *testing.T) {
		redisRepo.On("DeleteSession", mock.Anything, jti).Return(nil).Once()

		if err := app.Logout(context.Background(), got.Token); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
	})

	t.Run("garbage token rejected without touching the store", func(t *testing.T) {
		err := app.Logout(context.Background(), "not-a-jwt")
		var ce cerr.CustomError
		if !errors.As(err, &ce) || ce.ErrorCode() != constant.ErrorTypeCode[constant.ErrUnauthorize] {
			t.Fatalf("Logout() error = %v, want unauthorized", err)
		}
	})
}

func TestAuthApp_IsAdmin(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	otpRepo := otpmocks.NewOTPRepository(t)
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 1}).Return(&model.UserEntity{ID: 1, IsAdmin: true}, nil).Once()
	userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 2}).Return(&model.UserEntity{ID: 2}, nil).Once()
	userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 3}).Return(nil, nil).Once()

	app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)

	for _, tc := range []struct {
		userID uint64
		want   bool
	}{
		{1, true},
		{2, false},
		{3, false},
	} {
		got, err := app.IsAdmin(context.Background(), tc.userID)
		if err != nil {
			t.Fatalf("IsAdmin(%d) error = %v", tc.userID, err)
		}
		if got != tc.want {
			t.Fatalf("IsAdmin(%d) = %v, want %v", tc.userID, got, tc.want)
		}
	}
}

func TestAuthApp_SetPassword(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	otpRepo := otpmocks.NewOTPRepository(t)
	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)

	userRepo.On("UpdatePassword", mock.Anything, uint64(1), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")) == nil
	})).Return(nil).Once()

	app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)

	if err := app.SetPassword(context.Background(), 1, &model.SetPasswordRequest{Password: "hunter22"}); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
}

func TestAuthApp_EnsureAdminUser(t *testing.T) {
	t.Run("seeds the default admin when none exists", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		otpRepo := otpmocks.NewOTPRepository(t)
		userRepo := usermocks.NewUserRepository(t)
		redisRepo := redismocks.NewRedisRepository(t)

		userRepo.On("AdminExists", mock.Anything).Return(false, nil).Once()
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(entity *model.UserEntity) bool {
			return entity.IsAdmin && entity.Email != nil && *entity.Email == "admin@blip.com" && entity.PasswordHash != ""
		})).Return(&model.UserEntity{ID: 1}, nil).Once()

		app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)
		if err := app.EnsureAdminUser(context.Background()); err != nil {
			t.Fatalf("EnsureAdminUser() error = %v", err)
		}
	})

	t.Run("no-op when an admin is present", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		otpRepo := otpmocks.NewOTPRepository(t)
		userRepo := usermocks.NewUserRepository(t)
		redisRepo := redismocks.NewRedisRepository(t)

		userRepo.On("AdminExists", mock.Anything).Return(true, nil).Once()

		app := appauth.NewAuthApp(authConfig(), txRepo, otpRepo, userRepo, redisRepo)
		if err := app.EnsureAdminUser(context.Background()); err != nil {
			t.Fatalf("EnsureAdminUser() error = %v", err)
		}
	})
}
