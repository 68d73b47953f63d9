package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	tests := []struct {
		version, commit string
		want            string
	}{
		{"v1.2.3", "abc1234", "v1.2.3"},
		{"dev", "abc1234", "dev+abc1234"},
		{"dev", "none", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			Version, Commit = tt.version, tt.commit
			if got := Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
			if got := UserAgent(); got != "penplot/"+tt.want {
				t.Errorf("UserAgent() = %q", got)
			}
			if !strings.HasPrefix(Template(), "{{.Name}} "+tt.want+"\n") {
				t.Errorf("Template() = %q", Template())
			}
		})
	}
}
