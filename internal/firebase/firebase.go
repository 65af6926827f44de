// Package firebase builds the Firebase Admin app that backs live mode.
package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/arcticroofing/arctic-portal/internal/config"
)

// CredentialOptions picks the service-account source: a file, inline base64
// JSON, or Application Default Credentials (no option).
func CredentialOptions(cfg *config.Config, logger *zap.Logger) ([]option.ClientOption, error) {
	switch {
	case cfg.GoogleApplicationCredentials != "":
		if _, err := os.Stat(cfg.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("credentials file does not exist, Firebase may still find ADC",
				zap.String("path", cfg.GoogleApplicationCredentials))
		}
		logger.Info("Initializing Firebase with credentials file", zap.String("path", cfg.GoogleApplicationCredentials))
		return []option.ClientOption{option.WithCredentialsFile(cfg.GoogleApplicationCredentials)}, nil
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}, nil
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
		return nil, nil
	}
}

// NewApp initializes the Firebase Admin SDK for the configured project.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*firebase.App, error) {
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID must be set")
	}
	opts, err := CredentialOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	return app, nil
}
