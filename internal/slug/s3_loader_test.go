package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackLoader(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name      string
		s3Enabled bool
		s3Err     error
		fileErr   error
		nilS3     bool
		wantEntry string
		wantErr   bool
	}{
		{name: "S3 success", s3Enabled: true, wantEntry: "from-s3"},
		{name: "S3 fails, falls back to local", s3Enabled: true, s3Err: errors.New("S3 down"), wantEntry: "from-disk"},
		{name: "S3 disabled", s3Enabled: false, wantEntry: "from-disk"},
		{name: "S3 loader missing", s3Enabled: true, nilS3: true, wantEntry: "from-disk"},
		{name: "Both fail", s3Enabled: true, s3Err: errors.New("S3 down"), fileErr: errors.New("missing"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s3 Loader = &mockLoader{
				loadFunc: func(ctx context.Context, path string) (Set, error) {
					assert.Equal(t, "reserved-slugs/extra.gz", path, "S3 key should have prefix")
					if tt.s3Err != nil {
						return nil, tt.s3Err
					}
					return NewSet("from-s3"), nil
				},
			}
			if tt.nilS3 {
				s3 = nil
			}

			file := &mockLoader{
				loadFunc: func(ctx context.Context, path string) (Set, error) {
					assert.Equal(t, "extra.gz", path, "local path should not have prefix")
					if tt.fileErr != nil {
						return nil, tt.fileErr
					}
					return NewSet("from-disk"), nil
				},
			}

			loader := NewFallbackLoader(s3, file, "reserved-slugs/", tt.s3Enabled, logger)
			set, err := loader.Load(ctx, "extra.gz")

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, set.Contains(tt.wantEntry))
		})
	}
}
