// Package services contains the application services of the FieldTrack
// client: session handling, reference data, time reports, notes, the sync
// engine and media housekeeping.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/client"
	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the single authoritative auth record, stored as one JSON value
// in the metadata repository. Everything that needs the current user reads
// it from here; there is no second copy anywhere.
type Session struct {
	Token      string `json:"token"`
	UserID     int64  `json:"user_id"`
	EmployeeID int64  `json:"employee_id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	LoggedInAt string `json:"logged_in_at"`
}

// SessionService owns login, logout and the persisted session record.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error

	// Current returns the stored session, or common.ErrorNoSession. It does
	// not check token freshness; use Valid for that.
	Current(ctx context.Context) (*Session, error)

	// Valid reports whether a session exists and its token has not expired.
	Valid(ctx context.Context) bool

	// Token is the per-request token provider handed to the HTTP client.
	Token(ctx context.Context) (string, error)

	// DeviceID returns the persisted device identifier, creating it on first
	// call.
	DeviceID(ctx context.Context) (string, error)
}

type sessionService struct {
	remote client.Remote
	meta   metadata.Repository
	now    func() time.Time
}

func NewSessionService(remote client.Remote, meta metadata.Repository) SessionService {
	return &sessionService{remote: remote, meta: meta, now: time.Now}
}

func (s *sessionService) Login(ctx context.Context, username, password string) (*Session, error) {
	res, err := s.remote.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	sess := &Session{
		Token:      res.Token,
		UserID:     res.UserID,
		EmployeeID: res.EmployeeID,
		Username:   res.Username,
		FullName:   res.FullName,
		LoggedInAt: s.now().UTC().Format(models.TimeLayout),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.meta.Set(ctx, metadata.KeySession, b); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return sess, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.meta.Delete(ctx, metadata.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *sessionService) Current(ctx context.Context) (*Session, error) {
	b, err := s.meta.Get(ctx, metadata.KeySession)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if b == nil {
		return nil, common.ErrorNoSession
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *sessionService) Valid(ctx context.Context) bool {
	sess, err := s.Current(ctx)
	if err != nil {
		return false
	}
	exp, err := tokenExpiry(sess.Token)
	if err != nil {
		return false
	}
	// tokens without an exp claim are treated as non-expiring
	if exp.IsZero() {
		return true
	}
	return s.now().Before(exp)
}

func (s *sessionService) Token(ctx context.Context) (string, error) {
	sess, err := s.Current(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNoSession) {
			return "", nil
		}
		return "", err
	}
	return sess.Token, nil
}

func (s *sessionService) DeviceID(ctx context.Context) (string, error) {
	b, err := s.meta.Get(ctx, metadata.KeyDeviceID)
	if err != nil {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}
	if b != nil {
		return string(b), nil
	}
	id := uuid.NewString()
	if err := s.meta.Set(ctx, metadata.KeyDeviceID, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// device has no server key and only needs expiry to decide when a re-login
// is due. A zero time means the token carries no expiry.
func tokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
