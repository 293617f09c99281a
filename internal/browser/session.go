// Package browser wraps a headless Chromium session behind the small set of
// operations the pagination strategies drive: navigate, wait for a selector,
// read rendered content, click, scroll, press a key. Timeouts and
// navigation failures surface as ordinary errors.
package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/Khaliq12345/news-archive-bot/internal/config"
)

// Session owns one browser and one page for the lifetime of a job. The
// crawl is strictly sequential, so a single page is all a job ever needs.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     config.BrowserConfig
	logger  *slog.Logger
}

// New launches the browser and opens a blank page.
func New(cfg config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	logger.Info("browser session ready", "headless", cfg.Headless, "stealth", cfg.Stealth)
	return &Session{
		browser: b,
		page:    page,
		cfg:     cfg,
		logger:  logger.With("component", "browser"),
	}, nil
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(url string) error {
	p := s.page.Timeout(s.cfg.NavigationTimeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	s.WaitStable()
	return nil
}

// WaitFor blocks until selector is present and visible.
func (s *Session) WaitFor(selector string) error {
	el, err := s.page.Timeout(s.cfg.SelectorTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %q: %w", selector, err)
	}
	return nil
}

// Content returns the rendered HTML of the current page.
func (s *Session) Content() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return html, nil
}

// Click presses the element matched by selector.
func (s *Session) Click(selector string) error {
	el, err := s.page.Timeout(s.cfg.SelectorTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// IsVisible reports whether selector currently matches a visible element.
func (s *Session) IsVisible(selector string) bool {
	has, el, err := s.page.Has(selector)
	if err != nil || !has {
		return false
	}
	visible, err := el.Visible()
	return err == nil && visible
}

// ScrollToEnd jumps the viewport to the bottom of the document.
func (s *Session) ScrollToEnd() error {
	_, err := s.page.Timeout(s.cfg.SelectorTimeout).
		Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		return fmt.Errorf("scroll to end: %w", err)
	}
	return nil
}

// PressEnd sends the End key, which many infinite-scroll pages listen for.
func (s *Session) PressEnd() error {
	if err := s.page.Keyboard.Press(input.End); err != nil {
		return fmt.Errorf("press end: %w", err)
	}
	return nil
}

// CurrentURL returns the effective URL after any redirects.
func (s *Session) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

// WaitStable waits for the DOM to settle after a click or scroll step.
func (s *Session) WaitStable() {
	if err := s.page.Timeout(s.cfg.StepWait).WaitStable(300 * time.Millisecond); err != nil {
		s.logger.Debug("page stability timeout, continuing", "error", err)
	}
}

// Close shuts down the page and the browser.
func (s *Session) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		return s.browser.Close()
	}
	return nil
}
