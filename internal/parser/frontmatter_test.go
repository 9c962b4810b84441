package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseFrontmatter_NoHeader(t *testing.T) {
	inputs := []string{
		"",
		"# Just a heading\nSome text.\n",
		"text before\n---\nkey: value\n---\n",
		"--- \nkey: value\n---\n", // trailing space on the opening line
	}
	for _, in := range inputs {
		fm := ParseFrontmatter(in)
		if fm.Len() != 0 {
			t.Errorf("ParseFrontmatter(%q).Len() = %d, want 0", in, fm.Len())
		}
	}
}

func TestParseFrontmatter_UnterminatedBlock(t *testing.T) {
	fm := ParseFrontmatter("---\nkey: value\nno closing delimiter\n")
	if fm.Len() != 0 {
		t.Errorf("unterminated block should yield empty mapping, got %d fields", fm.Len())
	}
}

func TestParseFrontmatter_CRLFHeaderNotRecognized(t *testing.T) {
	fm := ParseFrontmatter("---\r\nkey: value\r\n---\r\n")
	if fm.Len() != 0 {
		t.Errorf("CRLF-delimited block should yield empty mapping, got %d fields", fm.Len())
	}
}

func TestParseFrontmatter_ScalarAndInt(t *testing.T) {
	fm := ParseFrontmatter("---\ntitle: Soup\ncount: 42\n---\n")

	v, ok := fm.Get("title")
	if !ok || v.Kind != KindString || v.Str != "Soup" {
		t.Errorf("title = %+v, want string Soup", v)
	}
	v, ok = fm.Get("count")
	if !ok || v.Kind != KindInt || v.Int != 42 {
		t.Errorf("count = %+v, want int 42", v)
	}
}

func TestParseFrontmatter_List(t *testing.T) {
	fm := ParseFrontmatter("---\ntags:\n  - a\n  - b\n---\n")
	v, ok := fm.Get("tags")
	if !ok || v.Kind != KindList {
		t.Fatalf("tags = %+v, want list", v)
	}
	if !reflect.DeepEqual(v.List, []string{"a", "b"}) {
		t.Errorf("tags = %v, want [a b]", v.List)
	}
}

func TestParseFrontmatter_FlushLeftListItems(t *testing.T) {
	// Items need not be indented under their key.
	fm := ParseFrontmatter("---\ntags:\n- one\n- two\n---\n")
	v, _ := fm.Get("tags")
	if !reflect.DeepEqual(v.List, []string{"one", "two"}) {
		t.Errorf("tags = %v, want [one two]", v.List)
	}
}

func TestParseFrontmatter_EmptyListStaysEmpty(t *testing.T) {
	// A key with no value followed by another key keeps an empty list.
	fm := ParseFrontmatter("---\ntags:\nservings: 4\n---\n")
	v, ok := fm.Get("tags")
	if !ok || v.Kind != KindList || len(v.List) != 0 {
		t.Errorf("tags = %+v, want empty list", v)
	}
	v, _ = fm.Get("servings")
	if v.Kind != KindInt || v.Int != 4 {
		t.Errorf("servings = %+v, want int 4", v)
	}
}

func TestParseFrontmatter_OrphanItemsDropped(t *testing.T) {
	// Items before any key, and items after a scalar closed list context,
	// are dropped rather than erroring.
	fm := ParseFrontmatter("---\n- stray\ntitle: Stew\n- also stray\n---\n")
	if fm.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", fm.Len())
	}
	v, _ := fm.Get("title")
	if v.Kind != KindString || v.Str != "Stew" {
		t.Errorf("title = %+v, want string Stew", v)
	}
}

func TestParseFrontmatter_ScalarClosesListContext(t *testing.T) {
	fm := ParseFrontmatter("---\ntags:\n  - keep\nservings: 2\n  - dropped\n---\n")
	v, _ := fm.Get("tags")
	if !reflect.DeepEqual(v.List, []string{"keep"}) {
		t.Errorf("tags = %v, want [keep]", v.List)
	}
}

func TestParseFrontmatter_DuplicateKeyLastWins(t *testing.T) {
	fm := ParseFrontmatter("---\ncategory: Soups\nsource: book\ncategory: Stews\n---\n")
	v, _ := fm.Get("category")
	if v.Str != "Stews" {
		t.Errorf("category = %q, want Stews (last occurrence)", v.Str)
	}
	// The key keeps its first insertion position.
	want := []string{"category", "source"}
	if !reflect.DeepEqual(fm.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", fm.Keys(), want)
	}
}

func TestParseFrontmatter_ReopenedListResets(t *testing.T) {
	fm := ParseFrontmatter("---\ntags:\n  - old\ntags:\n  - new\n---\n")
	v, _ := fm.Get("tags")
	if !reflect.DeepEqual(v.List, []string{"new"}) {
		t.Errorf("tags = %v, want [new]", v.List)
	}
}

func TestParseFrontmatter_MalformedLinesIgnored(t *testing.T) {
	fm := ParseFrontmatter("---\n: no key\nkey : spaced colon\nplain words\ntitle: Kept\n---\n")
	if fm.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (malformed lines skipped)", fm.Len())
	}
	if _, ok := fm.Get("key"); ok {
		t.Error("\"key : value\" with a space before the colon should not parse")
	}
}

func TestParseFrontmatter_DigitOverflowStaysString(t *testing.T) {
	big := strings.Repeat("9", 40)
	fm := ParseFrontmatter("---\nid: " + big + "\n---\n")
	v, _ := fm.Get("id")
	if v.Kind != KindString || v.Str != big {
		t.Errorf("id = %+v, want the digit run as a string", v)
	}
}

func TestParseFrontmatter_LeadingZeros(t *testing.T) {
	fm := ParseFrontmatter("---\nrank: 07\n---\n")
	v, _ := fm.Get("rank")
	if v.Kind != KindInt || v.Int != 7 {
		t.Errorf("rank = %+v, want int 7", v)
	}
}

func TestParseFrontmatter_NonDigitScalarsStayStrings(t *testing.T) {
	fm := ParseFrontmatter("---\ntemp: -20\ntime: 1 hour\nyes_field: yes\n---\n")
	for key, want := range map[string]string{"temp": "-20", "time": "1 hour", "yes_field": "yes"} {
		v, _ := fm.Get(key)
		if v.Kind != KindString || v.Str != want {
			t.Errorf("%s = %+v, want string %q", key, v, want)
		}
	}
}

func TestParseFrontmatter_InsertionOrder(t *testing.T) {
	fm := ParseFrontmatter("---\nc: 1\na: 2\nb: 3\n---\n")
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(fm.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", fm.Keys(), want)
	}
}

func TestParseFrontmatter_Idempotent(t *testing.T) {
	input := "---\ntitle: Borscht\ncount: 3\ntags:\n  - soup\n  - beet\n---\n# Borscht\n"
	first := ParseFrontmatter(input)
	second := ParseFrontmatter(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parses differ: %+v vs %+v", first, second)
	}
}

func TestValue_Scalar(t *testing.T) {
	if s, ok := (Value{Kind: KindString, Str: "x"}).Scalar(); !ok || s != "x" {
		t.Errorf("string Scalar = %q, %v", s, ok)
	}
	if s, ok := (Value{Kind: KindInt, Int: 12}).Scalar(); !ok || s != "12" {
		t.Errorf("int Scalar = %q, %v", s, ok)
	}
	if _, ok := (Value{Kind: KindList, List: []string{"a"}}).Scalar(); ok {
		t.Error("list Scalar should not be ok")
	}
}

func TestValue_StringList(t *testing.T) {
	got := (Value{Kind: KindString, Str: "solo"}).StringList()
	if !reflect.DeepEqual(got, []string{"solo"}) {
		t.Errorf("scalar StringList = %v, want [solo]", got)
	}
	got = (Value{Kind: KindInt, Int: 5}).StringList()
	if !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("int StringList = %v, want [5]", got)
	}
	got = (Value{Kind: KindList, List: []string{"a", "b"}}).StringList()
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("list StringList = %v, want [a b]", got)
	}
}

func TestFrontmatter_Map(t *testing.T) {
	fm := ParseFrontmatter("---\ntitle: Chili\nservings: 6\ntags:\n  - spicy\n---\n")
	got := fm.Map()
	want := map[string]any{"title": "Chili", "servings": 6, "tags": []string{"spicy"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %#v, want %#v", got, want)
	}

	if m := ParseFrontmatter("no header").Map(); m != nil {
		t.Errorf("empty mapping should yield nil, got %#v", m)
	}
}

func TestStripFrontmatter(t *testing.T) {
	body := StripFrontmatter("---\ntitle: X\n---\n# Heading\ntext\n")
	if body != "# Heading\ntext\n" {
		t.Errorf("body = %q", body)
	}
	unchanged := "# No header\ntext\n"
	if got := StripFrontmatter(unchanged); got != unchanged {
		t.Errorf("document without header changed: %q", got)
	}
	unterminated := "---\nkey: v\nstill going"
	if got := StripFrontmatter(unterminated); got != unterminated {
		t.Errorf("unterminated header changed: %q", got)
	}
}
