package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Host is the page being annotated.
//
// note: fault injection point
type Host interface {
	// Frame returns the document loaded in the iframe with the given element
	// id, or nil when no such frame exists (yet).
	Frame(ctx context.Context, id string) (*goquery.Document, error)
	// InsertAfter inserts markup right after the element with elementID
	// inside the frame frameID.
	InsertAfter(ctx context.Context, frameID, elementID, markup string) error
}

func byID(id string) string {
	// ids like MTG_INSTR$0 are not valid css identifiers, an attribute
	// selector accepts them as-is
	return fmt.Sprintf(`[id="%s"]`, id)
}

// StaticHost is a Host over already-parsed documents, one per frame id.
type StaticHost struct {
	mutex  sync.Mutex
	frames map[string]*goquery.Document
}

func NewStaticHost() *StaticHost {
	return &StaticHost{frames: make(map[string]*goquery.Document)}
}

// SetFrame makes doc the content of frame id, a nil doc removes the frame.
func (h *StaticHost) SetFrame(id string, doc *goquery.Document) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if doc == nil {
		delete(h.frames, id)
		return
	}
	h.frames[id] = doc
}

func (h *StaticHost) Frame(_ context.Context, id string) (*goquery.Document, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.frames[id], nil
}

func (h *StaticHost) InsertAfter(_ context.Context, frameID, elementID, markup string) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	doc, ok := h.frames[frameID]
	if !ok {
		return fmt.Errorf("frame %s does not exist", frameID)
	}
	sel := doc.Find(byID(elementID)).First()
	if sel.Length() == 0 {
		return fmt.Errorf("element %s does not exist in frame %s", elementID, frameID)
	}
	sel.AfterHtml(markup)
	return nil
}
