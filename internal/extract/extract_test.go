package extract

import (
    "reflect"
    "strings"
    "testing"
)

func TestHeadings_PreservesDocumentOrder(t *testing.T) {
    html := `<!doctype html>
    <html>
      <head><title>Country</title></head>
      <body>
        <h2>Intro</h2>
        <p>text</p>
        <div><section><h3>History</h3></section></div>
        <h2>Geography</h2>
      </body>
    </html>`

    got := Headings([]byte(html))
    want := []Heading{{2, "Intro"}, {3, "History"}, {2, "Geography"}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("got %+v, want %+v", got, want)
    }
}

func TestHeadings_AllLevels(t *testing.T) {
    html := `<h1>One</h1><h2>Two</h2><h3>Three</h3><h4>Four</h4><h5>Five</h5><h6>Six</h6><h7>Seven</h7>`
    got := Headings([]byte(html))
    if len(got) != 6 {
        t.Fatalf("expected 6 headings, got %+v", got)
    }
    for i, h := range got {
        if h.Level != i+1 {
            t.Fatalf("heading %d has level %d", i, h.Level)
        }
    }
}

func TestHeadings_UppercaseTags(t *testing.T) {
    got := Headings([]byte(`<H2>Economy</H2>`))
    want := []Heading{{2, "Economy"}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("got %+v, want %+v", got, want)
    }
}

func TestHeadings_StripsEditMarker(t *testing.T) {
    tests := []struct {
        name string
        html string
        want []Heading
    }{
        {"suffix", `<h2>History[edit]</h2>`, []Heading{{2, "History"}}},
        {"only marker", `<h2>[edit]</h2>`, nil},
        {"marker with spaces", `<h3>  [edit]  </h3>`, nil},
        {"wikipedia edit span", `<h2><span class="mw-headline">Culture</span><span class="mw-editsection">[edit]</span></h2>`, []Heading{{2, "Culture"}}},
        {"marker split across nodes", `<h2>Politics <span>[</span><a href="#">edit</a><span>]</span></h2>`, []Heading{{2, "Politics"}}},
        {"marker in middle", `<h4>Before [edit] after</h4>`, []Heading{{4, "Before  after"}}},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            got := Headings([]byte(tc.html))
            if !reflect.DeepEqual(got, tc.want) {
                t.Fatalf("got %+v, want %+v", got, tc.want)
            }
        })
    }
}

func TestHeadings_DropsEmpty(t *testing.T) {
    html := `<h2>   </h2><h3>
    </h3><h4><span></span></h4><h2>Kept</h2>`
    got := Headings([]byte(html))
    want := []Heading{{2, "Kept"}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("got %+v, want %+v", got, want)
    }
}

func TestHeadings_ConcatenatesDescendantText(t *testing.T) {
    html := `<h2>  <a href="/x">Foreign</a> <i>relations</i>  </h2>`
    got := Headings([]byte(html))
    want := []Heading{{2, "Foreign relations"}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("got %+v, want %+v", got, want)
    }
}

func TestHeadings_IgnoresComments(t *testing.T) {
    got := Headings([]byte(`<h2>Demographics<!-- hidden --></h2>`))
    want := []Heading{{2, "Demographics"}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("got %+v, want %+v", got, want)
    }
}

func TestHeadings_MalformedInputNeverFails(t *testing.T) {
    inputs := []string{
        "",
        "<<<>>>",
        "<html><body><div>",
        "not html at all",
        "\x00\xff\xfe",
        strings.Repeat("<div>", 500),
    }
    for _, in := range inputs {
        if got := Headings([]byte(in)); len(got) != 0 {
            t.Fatalf("expected no headings for %q, got %+v", in, got)
        }
    }
}

func TestHeadings_UnclosedHeadingRecovered(t *testing.T) {
    got := Headings([]byte(`<body><h2>Climate<p>body text`))
    if len(got) != 1 || got[0].Level != 2 || !strings.HasPrefix(got[0].Text, "Climate") {
        t.Fatalf("unexpected headings: %+v", got)
    }
}

func TestHeadings_Restartable(t *testing.T) {
    html := []byte(`<h2>A</h2><h3>B</h3>`)
    first := Headings(html)
    second := Headings(html)
    if !reflect.DeepEqual(first, second) {
        t.Fatalf("expected identical results, got %+v and %+v", first, second)
    }
}

func TestHeadingExtractor_ImplementsExtractor(t *testing.T) {
    var e Extractor = HeadingExtractor{}
    got := e.Extract([]byte(`<h1>Vanuatu</h1>`))
    if len(got) != 1 || got[0].Text != "Vanuatu" {
        t.Fatalf("unexpected: %+v", got)
    }
}

// The HTML5 tree builder closes an open h1-h6 when another heading start tag
// arrives directly inside it, but leaves the nesting alone when a non-heading
// element sits in between.
func TestHeadings_NestedHeadingTags(t *testing.T) {
    tests := []struct {
        name string
        html string
        want []Heading
    }{
        {"direct child is closed early", `<h2>Outer<h3>Inner</h3></h2>`, []Heading{{2, "Outer"}, {3, "Inner"}}},
        {"nesting kept through span", `<h2><span>Outer<h3>Inner</h3></span></h2>`, []Heading{{2, "OuterInner"}, {3, "Inner"}}},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            got := Headings([]byte(tc.html))
            if !reflect.DeepEqual(got, tc.want) {
                t.Fatalf("got %+v, want %+v", got, tc.want)
            }
        })
    }
}
