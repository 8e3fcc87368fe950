package presenter

import (
	"context"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/trust-score-scraper/internal/config"
)

// DocumentMount renders into a parsed page. With shadow isolation the UI
// lives in a declarative shadow root on a dedicated host element, so the
// written page keeps it isolated from the host page's styles.
type DocumentMount struct {
	mu        sync.Mutex
	doc       *goquery.Document
	isolation string
}

// NewDocumentMount creates a mount point over doc
func NewDocumentMount(doc *goquery.Document, isolation string) *DocumentMount {
	return &DocumentMount{doc: doc, isolation: isolation}
}

// Mounted reports whether the document already holds a badge
func (m *DocumentMount) Mounted(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Find("#"+BadgeID).Length() > 0, nil
}

// AttachStyles adds the stylesheet to the head, or to the shadow root
func (m *DocumentMount) AttachStyles(ctx context.Context, css string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc.Find("#"+StyleID).Length() > 0 {
		return nil
	}
	style := fmt.Sprintf(`<style id="%s">%s</style>`, StyleID, css)

	if m.isolation == config.IsolationShadow {
		m.shadowRoot().AppendHtml(style)
		return nil
	}
	head := m.doc.Find("head").First()
	if head.Length() == 0 {
		head = m.body()
	}
	head.AppendHtml(style)
	return nil
}

// AttachMarkup appends markup to the body, or to the shadow root
func (m *DocumentMount) AttachMarkup(ctx context.Context, markup string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isolation == config.IsolationShadow {
		m.shadowRoot().AppendHtml(markup)
		return nil
	}
	m.body().AppendHtml(markup)
	return nil
}

// AttachBehavior appends the click wiring script to the end of the body
func (m *DocumentMount) AttachBehavior(ctx context.Context, script string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.body().AppendHtml("<script>" + script + "</script>")
	return nil
}

// SetVisible sets the display style of the element
func (m *DocumentMount) SetVisible(ctx context.Context, id string, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := m.doc.Find("#" + id)
	if el.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	if visible {
		el.SetAttr("style", "display:flex")
	} else {
		el.SetAttr("style", "display:none")
	}
	return nil
}

// Remove deletes the element if present
func (m *DocumentMount) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.doc.Find("#" + id).Remove()
	return nil
}

// Render returns the whole page including the injected UI
func (m *DocumentMount) Render() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Html()
}

func (m *DocumentMount) body() *goquery.Selection {
	body := m.doc.Find("body").First()
	if body.Length() == 0 {
		// html.Parse always synthesizes a body; this covers hand-built documents.
		return m.doc.Selection
	}
	return body
}

func (m *DocumentMount) shadowRoot() *goquery.Selection {
	host := m.doc.Find("#" + HostID)
	if host.Length() == 0 {
		m.body().AppendHtml(fmt.Sprintf(`<div id="%s"><template shadowrootmode="open"></template></div>`, HostID))
		host = m.doc.Find("#" + HostID)
	}
	return host.ChildrenFiltered("template").First()
}
