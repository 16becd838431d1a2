package notify

import (
	"fmt"

	"go.uber.org/zap"
)

// Config selects and parameterizes a dispatcher binding. It is embedded in
// the application configuration file.
type Config struct {
	// Mode is one of "local" (default), "form", "issues".
	Mode   string       `yaml:"mode"`
	Form   FormConfig   `yaml:"form"`
	Issues IssuesConfig `yaml:"issues"`
}

type FormConfig struct {
	Endpoint string `yaml:"endpoint"`
	FormName string `yaml:"form_name"`
}

type IssuesConfig struct {
	APIBase string `yaml:"api_base"`
	Repo    string `yaml:"repo"`
	Token   string `yaml:"token"`
}

// FromConfig builds the configured dispatcher. An empty mode means local.
// Missing issue-relay credentials are allowed: the relay degrades to a
// logged no-op per call rather than failing startup.
func FromConfig(cfg Config, log *zap.Logger) (Dispatcher, error) {
	switch cfg.Mode {
	case "", "local":
		return NewLocal(log), nil
	case "form":
		if cfg.Form.Endpoint == "" {
			return nil, fmt.Errorf("dispatcher mode %q requires form.endpoint", cfg.Mode)
		}
		return NewFormRelay(cfg.Form.Endpoint, cfg.Form.FormName, log), nil
	case "issues":
		return NewIssueRelay(cfg.Issues.APIBase, cfg.Issues.Repo, cfg.Issues.Token, log), nil
	default:
		return nil, fmt.Errorf("unknown dispatcher mode %q", cfg.Mode)
	}
}
