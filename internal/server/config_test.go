package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantPort  string
		wantHttp2 bool
		wantCors  []string
		wantErr   bool
	}{
		{
			name:     "defaults",
			env:      map[string]string{},
			wantPort: DefaultPort,
			wantCors: []string{"*"},
		},
		{
			name:      "explicit values",
			env:       map[string]string{"PORT": "9090", "USE_HTTP2": "true", "CORS_ORIGINS": " http://a.io , ,http://b.io"},
			wantPort:  "9090",
			wantHttp2: true,
			wantCors:  []string{"http://a.io", "http://b.io"},
		},
		{
			name:     "only separators",
			env:      map[string]string{"CORS_ORIGINS": " , "},
			wantPort: DefaultPort,
			wantCors: []string{"*"},
		},
		{name: "non numeric port", env: map[string]string{"PORT": "http"}, wantErr: true},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "USE_HTTP2", "CORS_ORIGINS"} {
				t.Setenv(key, tt.env[key])
			}

			cfg, err := LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantHttp2, cfg.UseHttp2)
			assert.Equal(t, tt.wantCors, cfg.CorsOrigins)
		})
	}
}
