package browser

import (
	"errors"
	"strings"
	"testing"
)

// mockCommander records command executions for testing
type mockCommander struct {
	calls    int
	lastName string
	lastArgs []string
	err      error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.calls++
	m.lastName = name
	m.lastArgs = args
	return m.err
}

func TestOpen_Platforms(t *testing.T) {
	const dashboard = "http://192.168.0.10:8081/"

	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"linux", "xdg-open", []string{dashboard}},
		{"freebsd", "xdg-open", []string{dashboard}},
		{"darwin", "open", []string{dashboard}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", dashboard}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}
			if err := NewWithCommander(mock, tt.goos).Open(dashboard); err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if mock.lastName != tt.wantName {
				t.Errorf("command = %q, want %q", mock.lastName, tt.wantName)
			}
			if strings.Join(mock.lastArgs, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("args = %v, want %v", mock.lastArgs, tt.wantArgs)
			}
		})
	}
}

func TestOpen_Rejects(t *testing.T) {
	tests := []struct {
		name string
		goos string
		url  string
		want string
	}{
		{"unsupported platform", "plan9", "http://localhost:8081", "unsupported platform"},
		{"file scheme", "linux", "file:///etc/passwd", "not an http(s) url"},
		{"no host", "linux", "http://", "not an http(s) url"},
		{"bare word", "linux", "dashboard", "not an http(s) url"},
		{"unparseable", "linux", "http://[::1", "invalid url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCommander{}
			err := NewWithCommander(mock, tt.goos).Open(tt.url)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Open() error = %v, want it to contain %q", err, tt.want)
			}
			if mock.calls != 0 {
				t.Error("rejected url should not start a command")
			}
		})
	}
}

func TestOpen_CommandError(t *testing.T) {
	boom := errors.New("exec: not found")
	mock := &mockCommander{err: boom}

	if err := NewWithCommander(mock, "linux").Open("http://localhost:8081"); !errors.Is(err, boom) {
		t.Errorf("Open() error = %v, want %v", err, boom)
	}
}

func TestNew_UsesRealCommander(t *testing.T) {
	o := New()
	if _, ok := o.cmd.(RealCommander); !ok {
		t.Errorf("cmd = %T, want RealCommander", o.cmd)
	}
	if o.goos == "" {
		t.Error("goos should be set")
	}
}
