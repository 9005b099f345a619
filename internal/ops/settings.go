package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/sitescout/internal/agent"
	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/store"
)

// SetAPIKeyInput contains parameters for the SetAPIKey operation.
type SetAPIKeyInput struct {
	Key      string // required
	Validate bool   // probe the agent service before storing
}

// SetAPIKey stores the service credential, optionally validating it first
// by creating a throwaway session with a client built on the new key.
// An invalid key is rejected without touching the stored one.
func (o *Orchestrator) SetAPIKey(ctx context.Context, input SetAPIKeyInput) error {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return errors.NewInvalidRequest("key is required")
	}

	if input.Validate {
		probe := agent.NewClient(o.cfg.BaseURL, key, time.Duration(o.cfg.HTTPTimeoutSeconds)*time.Second)
		if err := probe.ValidateKey(ctx); err != nil {
			return err
		}
	}
	return store.SetAPIKey(o.db, key)
}

// APIKeyStatus reports whether a credential is stored and its masked form.
func (o *Orchestrator) APIKeyStatus() (set bool, masked string, err error) {
	key, err := store.GetAPIKey(o.db)
	if err != nil {
		return false, "", err
	}
	if key == "" {
		return false, "", nil
	}
	return true, maskKey(key), nil
}

// maskKey keeps enough of the key to recognize it, nothing more.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// SetUserRole stores the audience role used for analysis prompts.
func (o *Orchestrator) SetUserRole(role string) error {
	switch role {
	case "developer", "business", "researcher", "general", "auto", "default":
	default:
		return errors.NewInvalidRequest("role must be one of: developer, business, researcher, general, auto, default")
	}
	return store.SetUserRole(o.db, role)
}

// UserRole returns the stored role preference, defaulting to "default".
func (o *Orchestrator) UserRole() (string, error) {
	return store.GetUserRole(o.db)
}
