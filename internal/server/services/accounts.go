// Package services contains the backend's business logic: account
// lifecycle with JWT sessions, and owner-checked document access.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/cryptox"
	"github.com/dmitrijs2005/caregiver/internal/dbx"
	"github.com/dmitrijs2005/caregiver/internal/server/auth"
	"github.com/dmitrijs2005/caregiver/internal/server/config"
	"github.com/dmitrijs2005/caregiver/internal/server/models"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// Session is what a successful CreateAccount, SignIn or RefreshToken
// hands back to the caller.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
}

// AccountService registers accounts and issues, rotates and revokes
// their tokens.
type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount stores a new account and signs it in.
func (s *AccountService) CreateAccount(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, common.ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < common.MinPasswordLength {
		return nil, common.ErrWeakPassword
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
	}

	var session *Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Accounts(tx).Create(ctx, account)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrEmailAlreadyInUse
			}
			return fmt.Errorf("error creating account: %w", err)
		}
		session, err = s.issueSession(ctx, tx, created)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignIn checks the password and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	if !cryptox.VerifyPassword([]byte(password), account.PasswordSalt, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueSession(ctx, s.db, account)
}

// RefreshToken exchanges a refresh token for a new session, revoking the
// old token in the same transaction.
func (s *AccountService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		account, err := s.repomanager.Accounts(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("error loading account: %w", err)
		}
		session, err = s.issueSession(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes refreshToken.
func (s *AccountService) SignOut(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *AccountService) issueSession(ctx context.Context, db dbx.DBTX, account *models.Account) (*Session, error) {
	accessToken, err := auth.GenerateToken(account.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.repomanager.RefreshTokens(db).Create(ctx, account.ID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &Session{
		UserID:       account.ID,
		Email:        account.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
