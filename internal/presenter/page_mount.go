package presenter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// pageOps performs one mount operation inside the page. With shadow isolation
// every element lives in an open shadow root attached to the host element.
const pageOps = `(function (op, shadow, id, payload) {
  function root(create) {
    if (!shadow) return document;
    var host = document.getElementById("trust-score-host");
    if (!host && create) {
      host = document.createElement("div");
      host.id = "trust-score-host";
      document.body.appendChild(host);
      host.attachShadow({ mode: "open" });
    }
    return host ? host.shadowRoot : null;
  }
  var r, el;
  switch (op) {
  case "mounted":
    r = root(false);
    return !!(r && r.getElementById("trust-score-button"));
  case "styles":
    r = root(true);
    if (r.getElementById(id)) return true;
    el = document.createElement("style");
    el.id = id;
    el.textContent = payload;
    (shadow ? r : (document.head || document.body)).appendChild(el);
    return true;
  case "markup":
    r = root(true);
    el = document.createElement("template");
    el.innerHTML = payload;
    (shadow ? r : document.body).appendChild(el.content);
    return true;
  case "show":
  case "hide":
    r = root(false);
    el = r && r.getElementById(id);
    if (!el) return false;
    el.style.display = op === "show" ? "flex" : "none";
    return true;
  case "remove":
    r = root(false);
    el = r && r.getElementById(id);
    if (el) el.remove();
    return true;
  }
  return false;
})`

// PageMount renders into a live browser tab through chromedp
type PageMount struct {
	browserCtx context.Context
	shadow     bool
}

// NewPageMount creates a mount point for the tab behind browserCtx
func NewPageMount(browserCtx context.Context, isolation string) *PageMount {
	return &PageMount{browserCtx: browserCtx, shadow: isolation == config.IsolationShadow}
}

func (m *PageMount) call(ctx context.Context, op, id, payload string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	args, err := json.Marshal([]any{op, m.shadow, id, payload})
	if err != nil {
		return false, err
	}
	// The JSON array without its brackets is the argument list.
	expr := pageOps + "(" + strings.TrimSuffix(strings.TrimPrefix(string(args), "["), "]") + ")"

	var ok bool
	if err := chromedp.Run(m.browserCtx, chromedp.Evaluate(expr, &ok)); err != nil {
		return false, fmt.Errorf("page %s: %w", op, err)
	}
	return ok, nil
}

// Mounted reports whether the tab already shows a badge
func (m *PageMount) Mounted(ctx context.Context) (bool, error) {
	return m.call(ctx, "mounted", "", "")
}

// AttachStyles installs the stylesheet once
func (m *PageMount) AttachStyles(ctx context.Context, css string) error {
	_, err := m.call(ctx, "styles", StyleID, css)
	return err
}

// AttachMarkup appends markup to the body, or to the shadow root
func (m *PageMount) AttachMarkup(ctx context.Context, markup string) error {
	_, err := m.call(ctx, "markup", "", markup)
	return err
}

// AttachBehavior evaluates the click wiring script in the tab
func (m *PageMount) AttachBehavior(ctx context.Context, script string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var done bool
	return chromedp.Run(m.browserCtx, chromedp.Evaluate(script+"\ntrue", &done))
}

// SetVisible shows or hides an element
func (m *PageMount) SetVisible(ctx context.Context, id string, visible bool) error {
	op := "hide"
	if visible {
		op = "show"
	}
	ok, err := m.call(ctx, op, id, "")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return nil
}

// Remove deletes an element if present
func (m *PageMount) Remove(ctx context.Context, id string) error {
	_, err := m.call(ctx, "remove", id, "")
	return err
}

// BindClicks exposes the binding the behavior script reports clicks through.
// Run it before navigating so every document in the tab gets it.
func BindClicks() chromedp.Action {
	return runtime.AddBinding(BindingName)
}

// ListenClicks forwards clicks reported by the tab to the controller
func ListenClicks(browserCtx context.Context, c *Controller) {
	chromedp.ListenTarget(browserCtx, func(ev any) {
		called, ok := ev.(*runtime.EventBindingCalled)
		if !ok || called.Name != BindingName {
			return
		}
		// Listener callbacks must not block on further browser calls.
		go func(target Target) {
			if err := c.HandleClick(browserCtx, target); err != nil {
				log.Debug().Err(err).Str("target", string(target)).Msg("Ignored badge click")
			}
		}(Target(called.Payload))
	})
}
