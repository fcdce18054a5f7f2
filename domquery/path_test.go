package domquery

import (
	"testing"

	"github.com/akhatua2/designx/dom"
)

func mustParse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseHTMLString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestResolve_ButtonWithIDAndClasses(t *testing.T) {
	doc := mustParse(t, `<body><div id="app"><button id="save" class="btn primary">Save</button></div></body>`)
	btn := doc.Body.Children()[0].Children()[0]

	got := Resolve(btn)
	want := "div#app > button#save.btn.primary"
	if got != want {
		t.Errorf("Resolve: got %q, want %q", got, want)
	}
}

func TestResolve_NthChildOnlyForSameTagSiblings(t *testing.T) {
	// The span has sibling elements, but none share its tag: no nth-child.
	doc := mustParse(t, `<body><div><p>a</p><span>b</span><p>c</p></div></body>`)
	div := doc.Body.Children()[0]
	span := div.Children()[1]

	if got := Resolve(span); got != "div > span" {
		t.Errorf("unique tag: got %q, want %q", got, "div > span")
	}

	// The second p shares its tag with the first: nth-child scoped to
	// same-tag position, so it is 2, not its overall child position 3.
	secondP := div.Children()[2]
	if got := Resolve(secondP); got != "div > p:nth-child(2)" {
		t.Errorf("same-tag sibling: got %q, want %q", got, "div > p:nth-child(2)")
	}
}

func TestResolve_StableAcrossCalls(t *testing.T) {
	doc := mustParse(t, `<body><ul><li>a</li><li class="sel">b</li><li>c</li></ul></body>`)
	li := doc.Body.Children()[0].Children()[1]

	first := Resolve(li)
	second := Resolve(li)
	if first != second {
		t.Fatalf("Resolve unstable: %q then %q", first, second)
	}
	if first != "ul > li.sel:nth-child(2)" {
		t.Errorf("Resolve: got %q", first)
	}
}

func TestResolve_UnrelatedSiblingOfDifferentTag(t *testing.T) {
	before := mustParse(t, `<body><div><button id="go">Go</button></div></body>`)
	after := mustParse(t, `<body><div><p>new</p><button id="go">Go</button></div></body>`)

	pBefore := Resolve(before.Body.Children()[0].Children()[0])
	pAfter := Resolve(after.Body.Children()[0].Children()[1])
	if pBefore != pAfter {
		t.Errorf("path changed by unrelated sibling: %q vs %q", pBefore, pAfter)
	}
}

func TestResolve_IgnoresChromeSiblings(t *testing.T) {
	// An injected overlay div next to #app must not force nth-child onto
	// user-facing paths, and Find must count past it symmetrically.
	doc := mustParse(t, `<body><div id="app"><button id="save" class="btn primary">Save</button></div><div data-designx-ui="1"></div></body>`)
	btn := doc.Body.Children()[0].Children()[0]

	got := Resolve(btn)
	want := "div#app > button#save.btn.primary"
	if got != want {
		t.Errorf("Resolve: got %q, want %q", got, want)
	}
	if found := Find(doc, got); found != btn {
		t.Errorf("Find(%q) = %v, want the button", got, found)
	}
}

func TestFind_NthChildSkipsChromeSiblings(t *testing.T) {
	doc := mustParse(t, `<body><ul><li data-designx-ui="1">x</li><li>a</li><li>b</li></ul></body>`)
	ul := doc.Body.Children()[0]
	second := ul.Children()[2]

	path := Resolve(second)
	if path != "ul > li:nth-child(2)" {
		t.Fatalf("Resolve: got %q", path)
	}
	if found := Find(doc, path); found != second {
		t.Errorf("Find(%q) = %v, want second user li", path, found)
	}
}

func TestResolve_DetachedNodeYieldsOneSegment(t *testing.T) {
	el := &dom.Element{Tag: "div", ID: "lone"}
	if got := Resolve(el); got != "div#lone" {
		t.Errorf("detached: got %q, want %q", got, "div#lone")
	}
}

func TestFind_RoundTrip(t *testing.T) {
	doc := mustParse(t, `<body>
		<div id="app" class="root">
			<ul><li>a</li><li class="sel">b</li><li>c</li></ul>
			<button id="save" class="btn primary">Save</button>
		</div>
	</body>`)

	for _, el := range doc.Elements() {
		if el.Tag == "body" {
			continue
		}
		path := Resolve(el)
		if got := Find(doc, path); got != el {
			t.Errorf("round trip %q: got %v, want %v", path, got, el)
		}
	}
}

func TestFind_MissingAndAreaPaths(t *testing.T) {
	doc := mustParse(t, `<body><div id="app"></div></body>`)

	if got := Find(doc, "div#gone > span"); got != nil {
		t.Errorf("missing path: got %v, want nil", got)
	}
	if got := Find(doc, "area(10,10,100x50)"); got != nil {
		t.Errorf("area path: got %v, want nil", got)
	}
	if got := Find(doc, ""); got != nil {
		t.Errorf("empty path: got %v, want nil", got)
	}
}
