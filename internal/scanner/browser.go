package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// BrowserHost is a Host backed by a live Chrome tab, ctx must be a chromedp
// context (see chromedp.NewContext) whose tab has the page loaded.
type BrowserHost struct {
	tab context.Context
}

func NewBrowserHost(tab context.Context) BrowserHost {
	return BrowserHost{tab: tab}
}

// the frame's document is only reachable from the page when both are on the
// same origin, which is the case for the registration page's own iframes.
const frameHtmlScript = `(function(id) {
	const frame = document.getElementById(id);
	if (!frame) return "";
	const doc = frame.contentDocument || (frame.contentWindow && frame.contentWindow.document);
	if (!doc || !doc.documentElement) return "";
	return doc.documentElement.outerHTML;
})(%s)`

const insertAfterScript = `(function(frameId, elementId, markup) {
	const frame = document.getElementById(frameId);
	if (!frame) return false;
	const doc = frame.contentDocument || frame.contentWindow.document;
	const element = doc.getElementById(elementId);
	if (!element) return false;
	element.insertAdjacentHTML("afterend", markup);
	return true;
})(%s, %s, %s)`

func jsArgs(args ...string) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		encoded, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		out[i] = string(encoded)
	}
	return out, nil
}

// run executes actions on the tab while still honoring cancellation of ctx.
func (h BrowserHost) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(h.tab, actions...)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h BrowserHost) Frame(ctx context.Context, id string) (*goquery.Document, error) {
	args, err := jsArgs(id)
	if err != nil {
		return nil, err
	}

	var outerHtml string
	err = h.run(ctx, chromedp.Evaluate(fmt.Sprintf(frameHtmlScript, args...), &outerHtml))
	if err != nil {
		return nil, fmt.Errorf("read frame %s: %w", id, err)
	}
	if outerHtml == "" {
		return nil, nil
	}
	return goquery.NewDocumentFromReader(strings.NewReader(outerHtml))
}

func (h BrowserHost) InsertAfter(ctx context.Context, frameID, elementID, markup string) error {
	args, err := jsArgs(frameID, elementID, markup)
	if err != nil {
		return err
	}

	var inserted bool
	err = h.run(ctx, chromedp.Evaluate(fmt.Sprintf(insertAfterScript, args...), &inserted))
	if err != nil {
		return fmt.Errorf("insert after %s: %w", elementID, err)
	}
	if !inserted {
		return fmt.Errorf("element %s does not exist in frame %s", elementID, frameID)
	}
	return nil
}
