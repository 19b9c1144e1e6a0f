package selection

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

func TestHighlight_WrapsInPlace(t *testing.T) {
	root := parseFragment(t, "<p>He<b>llo</b>!</p>")
	leaf := findText(t, root, "llo")
	boldParent := leaf.Parent

	wrapper, err := Highlight(leaf, "mark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wrapper.Type != html.ElementNode || wrapper.Data != WrapperTag {
		t.Errorf("wrapper is <%s>, want <%s>", wrapper.Data, WrapperTag)
	}
	if len(wrapper.Attr) != 1 || wrapper.Attr[0].Key != "class" || wrapper.Attr[0].Val != "mark" {
		t.Errorf("wrapper attrs = %v", wrapper.Attr)
	}
	if wrapper.Parent != boldParent {
		t.Error("wrapper not placed at the leaf's old position")
	}
	if leaf.Parent != nil {
		t.Error("original leaf still attached")
	}
	if wrapper.FirstChild == nil || wrapper.FirstChild.Data != "llo" {
		t.Error("wrapper does not contain the leaf's content")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doctree.ElementByTag(root, "p", 0)); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<p>He<b><span class="mark">llo</span></b>!</p>`
	if buf.String() != want {
		t.Errorf("rendered %s, want %s", buf.String(), want)
	}
}

func TestHighlight_TextContentUnchanged(t *testing.T) {
	root := parseFragment(t, "<p>Hello</p>")
	leaf := findText(t, root, "Hello")

	if _, err := Highlight(leaf, "mark"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := doctree.Text(doctree.ElementByTag(root, "p", 0)); text != "Hello" {
		t.Errorf("text after highlight = %q, want %q", text, "Hello")
	}
}

func TestHighlight_RejectsNodeWithChildren(t *testing.T) {
	root := parseFragment(t, "<p><b>x</b></p>")
	bold := doctree.ElementByTag(root, "b", 0)

	if _, err := Highlight(bold, "mark"); !errors.Is(err, ErrHasChildren) {
		t.Errorf("expected ErrHasChildren, got %v", err)
	}
	if bold.Parent == nil {
		t.Error("rejected node must stay attached")
	}
}

func TestHighlight_RejectsDetached(t *testing.T) {
	if _, err := Highlight(doctree.NewText("x"), "mark"); !errors.Is(err, doctree.ErrDetachedNode) {
		t.Errorf("expected ErrDetachedNode, got %v", err)
	}
}
