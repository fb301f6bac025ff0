package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

// Auth exchanges provider-issued tokens for server-side sessions and resolves
// session ids into identities for the rest of the application.
type Auth struct {
	uowFactory *dbs.UOWFactory
	cfg        auth.OIDCConfig
}

func NewAuth(uowFactory *dbs.UOWFactory, cfg auth.OIDCConfig) *Auth {
	return &Auth{uowFactory: uowFactory, cfg: cfg}
}

func (c *Auth) CreateSession(ctx context.Context, req dto.CreateSession) (string, error) {
	jwksCtx, cancel := context.WithTimeout(ctx, time.Second*2)
	jwks, err := keyfunc.NewDefaultCtx(jwksCtx, []string{c.cfg.IssuerURL + "/.well-known/jwks.json"})
	cancel()
	if err != nil {
		return "", fmt.Errorf("failed to get JWKS: %v", err)
	}

	accessClaims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(req.AccessToken, accessClaims, jwks.Keyfunc, jwt.WithLeeway(10*time.Second))
	if err != nil {
		return "", errs.PermissionsError{Err: fmt.Errorf("failed to parse JWT: %v", err)}
	}

	// the access token signature vouches for the pair, identity claims ride
	// on the id token
	idToken, _, err := new(jwt.Parser).ParseUnverified(req.IdToken, jwt.MapClaims{})
	if err != nil {
		return "", errs.PermissionsError{Err: fmt.Errorf("failed to parse id token: %v", err)}
	}
	claims := idToken.Claims.(jwt.MapClaims)
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errs.PermissionsError{Err: fmt.Errorf("id token carries no email claim")}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return "", err
	}
	defer uow.Finalize(&err)

	var userID uuid.UUID
	err = tx.QueryRow(ctx, "SELECT id FROM agency.users WHERE email = $1", email).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		newUser, createErr := createUserFromClaims(claims)
		if createErr != nil {
			return "", fmt.Errorf("err creating new user, %v", createErr)
		}
		userID = newUser.ID
		_, err = tx.Exec(ctx,
			"INSERT INTO agency.users(id, first_name, second_name, email, role, status, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)",
			newUser.ID, newUser.FirstName, newUser.SecondName, newUser.Email, newUser.Role, newUser.Status, newUser.CreatedAt)
		if err != nil {
			return "", fmt.Errorf("err inserting user, %v", err)
		}
		slog.Info("registered new user", "user", userID)
	} else if err != nil {
		return "", fmt.Errorf("error getting user by email, %v", err)
	}

	session := db.Session{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: req.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(c.cfg.SessionLifetimeHours) * time.Hour),
	}
	_, err = tx.Exec(ctx, "INSERT INTO agency.sessions(id, user_id, refresh_token, expires_at) VALUES ($1,$2,$3,$4)",
		session.ID, session.UserID, session.RefreshToken, session.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("error creating a session, %v", err)
	}

	return session.ID.String(), nil
}

// GetIdentity resolves a session id into the caller's identity. Expired or
// unknown sessions resolve to a permissions error, not a nil identity.
func (c *Auth) GetIdentity(ctx context.Context, sessionID string) (*auth.Identity, error) {
	if c.cfg.Mode == "TEST" {
		return &auth.Identity{UserID: c.cfg.TestUser, Role: consts.RoleAdmin}, nil
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, errs.PermissionsError{Err: fmt.Errorf("malformed session id")}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	var identity auth.Identity
	var expiresAt time.Time
	err = tx.QueryRow(ctx,
		`SELECT s.user_id, s.expires_at, u.role FROM agency.sessions s
		 JOIN agency.users u ON u.id = s.user_id
		 WHERE s.id = $1`, id).Scan(&identity.UserID, &expiresAt, &identity.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.PermissionsError{Err: fmt.Errorf("session not found")}
	}
	if err != nil {
		return nil, fmt.Errorf("error getting session, %v", err)
	}
	if time.Now().After(expiresAt) {
		return nil, errs.PermissionsError{Err: fmt.Errorf("session expired")}
	}

	return &identity, nil
}

func (c *Auth) GetSession(ctx context.Context, sessionID string) (*dto.SessionInfo, error) {
	identity, err := c.GetIdentity(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	info := dto.SessionInfo{UserID: identity.UserID, Role: string(identity.Role)}
	err = tx.QueryRow(ctx, "SELECT email FROM agency.users WHERE id = $1", identity.UserID).Scan(&info.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user, %v", err)
	}
	return &info, nil
}

func createUserFromClaims(claims jwt.MapClaims) (*db.User, error) {
	id := uuid.New()
	if sub, ok := claims["sub"].(string); ok {
		if parsed, err := uuid.Parse(sub); err == nil {
			id = parsed
		}
	}
	firstName, _ := claims["given_name"].(string)
	secondName, _ := claims["family_name"].(string)
	email, _ := claims["email"].(string)
	return &db.User{
		ID:         id,
		FirstName:  firstName,
		SecondName: secondName,
		Email:      email,
		Role:       string(consts.RoleUser),
		Status:     string(consts.UserStatusActive),
		CreatedAt:  time.Now(),
	}, nil
}
