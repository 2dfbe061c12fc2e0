package cli

import (
	"context"
	"fmt"
	"strings"
)

// Panel is one of the three work areas. Exactly one is active.
type Panel string

const (
	PanelProtect Panel = "protect"
	PanelVerify  Panel = "verify"
	PanelMonitor Panel = "monitor"
)

var panels = []Panel{PanelProtect, PanelVerify, PanelMonitor}

// SwitchTab activates the named panel. An unknown name leaves the current
// panel active.
func (a *App) SwitchTab(name string) error {
	p := Panel(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range panels {
		if p == known {
			a.active = p
			a.logger.Debug(context.Background(), "panel switched", "panel", p)
			return nil
		}
	}
	return fmt.Errorf("unknown panel %q (choose protect, verify or monitor)", name)
}

func (a *App) ActivePanel() Panel {
	if a.active == "" {
		return PanelProtect
	}
	return a.active
}

// RunActive runs the active panel's action with args.
func (a *App) RunActive(ctx context.Context, args []string) error {
	switch a.ActivePanel() {
	case PanelVerify:
		return a.Verify(ctx, args)
	case PanelMonitor:
		return a.Monitor(ctx, args)
	default:
		return a.Protect(ctx, args)
	}
}
