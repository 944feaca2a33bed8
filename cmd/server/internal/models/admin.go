package models

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"

	"github.com/alexedwards/argon2id"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/psytestlab/results-api/internal/logger"
)

// AdminUsername is the sentinel username of the single admin identity.
const AdminUsername = "admin"

// Used when doing a fake compare for a missing admin row
var defaultHashForError string

func init() {
	var err error

	defaultHashForError, err = argon2id.CreateHash(
		"kTeyH0J3w+qgmbyW5ZP0cCotPzUzXwy1ub4eolNtGQfJcEBcBLWRxA4ddUMcmPWBQXc=",
		argon2id.DefaultParams,
	)
	if err != nil {
		logger.Logger.Error("error creating default hash", "error", err)
		os.Exit(1)
	}
}

type Admin struct {
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string // argon2id hash, never plaintext
	Model
}

func (Admin) TableName() string {
	return "admins"
}

// Does a fake hash and compare for a hard coded password so a missing admin
// row costs the same as a real comparison.
func fakePasswordHash(ctx context.Context) {
	_, span := tracer.Start(ctx, "fakePasswordHash")
	defer span.End()

	_, err := argon2id.ComparePasswordAndHash("i am a very real password", defaultHashForError)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compare fake password with default hash")
		return
	}

	span.AddEvent("compared fake password and default hash")
}

// AuthenticateAdmin checks password for the single admin identity.
//
// The admin row does not exist until the first successful login: when no row
// is stored, the password is checked against the configured default and a row
// holding its argon2id hash is created on a match. Every later login checks
// the stored hash.
func AuthenticateAdmin(
	ctx context.Context,
	db *gorm.DB,
	password string,
	defaultPassword string,
) (bool, error) {
	ctx, span := tracer.Start(ctx, "AuthenticateAdmin")
	defer span.End()

	db = db.WithContext(ctx)

	var admin Admin
	err := db.Where("username = ?", AdminUsername).First(&admin).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch admin row")
			return false, fmt.Errorf("failed to fetch admin row: %w", err)
		}

		span.AddEvent("no admin row yet, checking configured default password")

		match := subtle.ConstantTimeCompare([]byte(password), []byte(defaultPassword)) == 1
		// keep the cost of a wrong guess close to the stored-hash path
		fakePasswordHash(ctx)
		if !match {
			span.AddEvent("failed login attempt")
			return false, nil
		}

		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to hash admin password")
			return false, fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin = Admin{Username: AdminUsername, PasswordHash: hash}
		err = db.Create(&admin).Error
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to create admin row")
			return false, fmt.Errorf("failed to create admin row: %w", err)
		}

		span.AddEvent("created admin identity on first successful login")
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "authenticated")
		return true, nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, admin.PasswordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check password hash")
		return false, fmt.Errorf("failed to check password hash: %w", err)
	}

	if match {
		span.AddEvent("successful login attempt")
	} else {
		span.AddEvent("failed login attempt")
	}

	return match, nil
}
