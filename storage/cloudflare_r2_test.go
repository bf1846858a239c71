package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "exports/a.json", "https://cdn.example.com/exports/a.json"},
		{"https://cdn.example.com/", "/exports/a.json", "https://cdn.example.com/exports/a.json"},
		{"https://cdn.example.com/league", "exports/a.json", "https://cdn.example.com/league/exports/a.json"},
		{"https://cdn.example.com/league/", "exports/a.json", "https://cdn.example.com/league/exports/a.json"},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.base+" "+tt.key, func(t *testing.T) {
			base, err := parseBaseURL(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, publicURL(base, tt.key))
		})
	}
}

func TestParseBaseURLRejectsRelative(t *testing.T) {
	_, err := parseBaseURL("cdn.example.com/exports")
	assert.Error(t, err)
}

func TestNewCloudflareR2UploaderRequiresEveryField(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID:   "acc",
		AccessKeyID: "key",
		BucketName:  "bucket",
	})
	assert.Error(t, err)
}

func TestNewCloudflareR2Uploader(t *testing.T) {
	up, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "bucket",
		PublicBaseURL:   "https://cdn.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/exports/x.json", up.GetPublicURL("exports/x.json"))
}
