package awsauth

import (
	"errors"
	"testing"

	"github.com/oriys/quasar/internal/engine"
)

func TestParseSettings(t *testing.T) {
	t.Run("no aws keys", func(t *testing.T) {
		advanced := []engine.Record{{Key: "SSL Mode", Value: "required"}}
		s, err := ParseSettings(advanced)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != nil {
			t.Errorf("got %+v, want nil for non-AWS profile", s)
		}
	})

	t.Run("static", func(t *testing.T) {
		advanced := []engine.Record{
			{Key: KeyAWSAuth, Value: "Static"},
			{Key: KeyAWSRegion, Value: " us-east-1 "},
			{Key: KeyAWSAccessKey, Value: "AKIAEXAMPLE"},
			{Key: KeyAWSSecretKey, Value: "secret"},
		}
		s, err := ParseSettings(advanced)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Method != AuthMethodStatic {
			t.Errorf("Method = %q, want static", s.Method)
		}
		if s.Region != "us-east-1" {
			t.Errorf("Region = %q, want trimmed us-east-1", s.Region)
		}
	})

	t.Run("defaults to default chain", func(t *testing.T) {
		advanced := []engine.Record{{Key: KeyAWSRegion, Value: "eu-west-1"}}
		s, err := ParseSettings(advanced)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Method != AuthMethodDefault {
			t.Errorf("Method = %q, want default", s.Method)
		}
	})

	t.Run("iam auth flag", func(t *testing.T) {
		advanced := []engine.Record{
			{Key: KeyAWSRegion, Value: "us-west-2"},
			{Key: KeyAWSIAMAuth, Value: "TRUE"},
		}
		s, err := ParseSettings(advanced)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.UseIAMAuth {
			t.Error("UseIAMAuth = false, want true")
		}
	})

	t.Run("invalid settings rejected", func(t *testing.T) {
		advanced := []engine.Record{{Key: KeyAWSAuth, Value: "static"}}
		if _, err := ParseSettings(advanced); !errors.Is(err, ErrRegionRequired) {
			t.Errorf("got %v, want ErrRegionRequired", err)
		}
	})
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr error
	}{
		{"static ok", Settings{Region: "us-east-1", Method: AuthMethodStatic, AccessKey: "k", SecretKey: "s"}, nil},
		{"static missing secret", Settings{Region: "us-east-1", Method: AuthMethodStatic, AccessKey: "k"}, ErrStaticCredentialsRequired},
		{"profile ok", Settings{Region: "us-east-1", Method: AuthMethodProfile, ProfileName: "prod"}, nil},
		{"profile missing name", Settings{Region: "us-east-1", Method: AuthMethodProfile}, ErrProfileNameRequired},
		{"env ok", Settings{Region: "us-east-1", Method: AuthMethodEnv}, nil},
		{"default ok", Settings{Region: "us-east-1", Method: AuthMethodDefault}, nil},
		{"missing region", Settings{Method: AuthMethodDefault}, ErrRegionRequired},
		{"unknown method", Settings{Region: "us-east-1", Method: "magic"}, ErrInvalidAuthMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCredentialsProvider(t *testing.T) {
	static := Settings{Region: "us-east-1", Method: AuthMethodStatic, AccessKey: "k", SecretKey: "s"}
	if static.credentialsProvider() == nil {
		t.Error("static settings should yield an explicit provider")
	}

	def := Settings{Region: "us-east-1", Method: AuthMethodDefault}
	if def.credentialsProvider() != nil {
		t.Error("default chain should not yield an explicit provider")
	}
}
