package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Versifine/mclink/internal/config"
)

func TestApplyAddress(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		args    []string
		want    string
		wantErr bool
	}{
		{"使用配置", "cfg.example.com", nil, "cfg.example.com:25565", false},
		{"参数覆盖", "cfg.example.com", []string{"arg.example.com:25570"}, "arg.example.com:25570", false},
		{"参数无端口", "", []string{"arg.example.com"}, "arg.example.com:25565", false},
		{"都没有", "", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.Host = tt.host
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			got, err := applyAddress(cfg, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("applyAddress() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("输出 = %q, 期望 %q", out.String(), version)
	}

	out.Reset()
	cmd = versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "Protocol:   316") {
		t.Errorf("输出 = %q, 期望包含协议版本", out.String())
	}
}
