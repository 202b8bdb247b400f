// Package awsauth resolves AWS credentials for profiles that point at
// AWS-hosted databases (RDS, Aurora). It turns a profile's advanced
// options into an aws.Config and can mint RDS IAM authentication tokens
// used in place of a static database password.
package awsauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	rdsauth "github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/logging"
)

// AuthMethod selects how AWS credentials are obtained.
type AuthMethod string

const (
	// AuthMethodStatic uses an explicit access key and secret key.
	AuthMethodStatic AuthMethod = "static"
	// AuthMethodProfile uses a named profile from the shared credentials file.
	AuthMethodProfile AuthMethod = "profile"
	// AuthMethodEnv uses AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY.
	AuthMethodEnv AuthMethod = "env"
	// AuthMethodDefault uses the SDK's default credential chain and is the
	// recommended setting: it covers env vars, shared files, and instance
	// roles automatically.
	AuthMethodDefault AuthMethod = "default"
)

// Advanced option keys for AWS-backed profiles.
const (
	KeyAWSAuth        = "AWS Auth"
	KeyAWSRegion      = "AWS Region"
	KeyAWSAccessKey   = "AWS Access Key"
	KeyAWSSecretKey   = "AWS Secret Key"
	KeyAWSProfileName = "AWS Profile"
	KeyAWSIAMAuth     = "AWS IAM Auth" // "true" to replace the password with an RDS IAM token
)

var (
	ErrRegionRequired            = errors.New("aws region is required")
	ErrStaticCredentialsRequired = errors.New("static auth requires an access key and secret key")
	ErrProfileNameRequired       = errors.New("profile auth requires a profile name")
	ErrInvalidAuthMethod         = errors.New("invalid aws auth method: must be one of: static, profile, env, default")
)

// Settings is the parsed AWS configuration of one profile.
type Settings struct {
	Region      string
	Method      AuthMethod
	AccessKey   string
	SecretKey   string
	ProfileName string
	// UseIAMAuth requests an RDS IAM token instead of a password.
	UseIAMAuth bool
}

// ParseSettings extracts AWS settings from advanced connection options.
// Returns (nil, nil) when the profile carries no AWS keys at all.
func ParseSettings(advanced []engine.Record) (*Settings, error) {
	method := engine.RecordValueOrDefault(advanced, KeyAWSAuth, "")
	region := engine.RecordValueOrDefault(advanced, KeyAWSRegion, "")
	iam := engine.RecordValueOrDefault(advanced, KeyAWSIAMAuth, "")
	if method == "" && region == "" && iam == "" {
		return nil, nil
	}

	s := &Settings{
		Region:      strings.TrimSpace(region),
		Method:      AuthMethod(strings.ToLower(strings.TrimSpace(method))),
		AccessKey:   strings.TrimSpace(engine.RecordValueOrDefault(advanced, KeyAWSAccessKey, "")),
		SecretKey:   strings.TrimSpace(engine.RecordValueOrDefault(advanced, KeyAWSSecretKey, "")),
		ProfileName: engine.RecordValueOrDefault(advanced, KeyAWSProfileName, ""),
		UseIAMAuth:  strings.EqualFold(iam, "true"),
	}
	if s.Method == "" {
		s.Method = AuthMethodDefault
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings against the selected auth method.
func (s *Settings) Validate() error {
	if s.Region == "" {
		return ErrRegionRequired
	}
	switch s.Method {
	case AuthMethodStatic:
		if s.AccessKey == "" || s.SecretKey == "" {
			return ErrStaticCredentialsRequired
		}
	case AuthMethodProfile:
		if s.ProfileName == "" {
			return ErrProfileNameRequired
		}
	case AuthMethodEnv, AuthMethodDefault:
	default:
		return ErrInvalidAuthMethod
	}
	return nil
}

// credentialsProvider returns an explicit provider for static auth; other
// methods rely on LoadDefaultConfig options or the default chain.
func (s *Settings) credentialsProvider() aws.CredentialsProvider {
	if s.Method == AuthMethodStatic {
		return credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")
	}
	return nil
}

// LoadConfig resolves the settings to an aws.Config.
func (s *Settings) LoadConfig(ctx context.Context) (aws.Config, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.Region),
	}
	if provider := s.credentialsProvider(); provider != nil {
		options = append(options, awsconfig.WithCredentialsProvider(provider))
	}
	if s.Method == AuthMethodProfile {
		options = append(options, awsconfig.WithSharedConfigProfile(s.ProfileName))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		logging.Op().Error("failed to load AWS configuration", "region", s.Region, "method", string(s.Method), "error", err)
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	logging.Op().Debug("AWS configuration loaded", "region", s.Region, "method", string(s.Method))
	return cfg, nil
}

// RDSAuthToken builds an IAM authentication token for an RDS endpoint,
// usable as the database password for roughly 15 minutes.
func (s *Settings) RDSAuthToken(ctx context.Context, endpoint, user string) (string, error) {
	cfg, err := s.LoadConfig(ctx)
	if err != nil {
		return "", err
	}
	token, err := rdsauth.BuildAuthToken(ctx, endpoint, s.Region, user, cfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("build rds auth token: %w", err)
	}
	return token, nil
}
