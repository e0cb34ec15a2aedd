package llm

import (
	"context"
	"time"
)

// healthPrompt is intentionally tiny; the probe only proves the provider is
// reachable and authorized.
const (
	healthSystem  = "You are a health check. Reply with the single word: ok"
	healthUser    = "ping"
	healthTimeout = 5 * time.Second
)

// Health probes a provider with one cheap completion. A nil error means the
// provider is reachable, authorized and answering.
func Health(ctx context.Context, provider Provider) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	_, err := provider.Complete(ctx, healthSystem, healthUser)
	if err != nil {
		return TranslateError(provider.Name(), err)
	}
	return nil
}
