package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    ServerConfig
		wantErr bool
	}{
		{
			name: "defaults",
			yaml: "",
			want: ServerConfig{Addr: ":8070", Database: "projects.db", LogLevel: "info", MaxAssetBytes: DefaultMaxAssetBytes},
		},
		{
			name: "explicit",
			yaml: "addr: 127.0.0.1:9000\ndatabase: ':memory:'\nlogLevel: debug\nmaxAssetBytes: 1024\n",
			want: ServerConfig{Addr: "127.0.0.1:9000", Database: ":memory:", LogLevel: "debug", MaxAssetBytes: 1024},
		},
		{name: "bad level", yaml: "logLevel: loud\n", wantErr: true},
		{name: "negative limit", yaml: "maxAssetBytes: -1\n", wantErr: true},
		{name: "bad yaml", yaml: "addr: [\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServerConfig([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseServerConfig() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseServerConfig() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projectd.yaml")
	if err := os.WriteFile(path, []byte("addr: :9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if _, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
