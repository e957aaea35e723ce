package ccl

import "testing"

func parseAndBuild(t *testing.T, text string, opts Options) *Model {
	t.Helper()
	entries, err := Parse(text, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m, err := Build(entries, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestBuildBareList(t *testing.T) {
	input := "servers =\n  = web1\n  = web2"
	root := parseAndBuild(t, input, DefaultOptions())

	servers, err := root.Get("servers")
	if err != nil {
		t.Fatalf("Get(servers): %v", err)
	}
	list, err := servers.AsList(DefaultOptions())
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(list) != 2 || list[0] != "web1" || list[1] != "web2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestBuildContinuationWithFlagLikeKeyStaysSingleton(t *testing.T) {
	// A continuation line that reads as "--flag = value" must not be
	// mistaken for a nested map: '-' is not a valid leading key character.
	input := "install =\n  --flag = value"
	root := parseAndBuild(t, input, DefaultOptions())

	install, err := root.Get("install")
	if err != nil {
		t.Fatalf("Get(install): %v", err)
	}
	if !install.IsSingleton() {
		t.Fatalf("expected install to stay a singleton, got a map")
	}
}

func TestBuildContinuationWithSpacedKeyStaysSingleton(t *testing.T) {
	input := "run =\n  do the thing = now"
	root := parseAndBuild(t, input, DefaultOptions())

	run, err := root.Get("run")
	if err != nil {
		t.Fatalf("Get(run): %v", err)
	}
	if !run.IsSingleton() {
		t.Fatalf("expected run to stay a singleton, got a map")
	}
}

func TestBuildMultilineValueStaysSingleton(t *testing.T) {
	input := "description =\n  line one\n  line two"
	root := parseAndBuild(t, input, DefaultOptions())

	desc, err := root.Get("description")
	if err != nil {
		t.Fatalf("Get(description): %v", err)
	}
	s, err := desc.AsStr()
	if err != nil {
		t.Fatalf("AsStr: %v", err)
	}
	want := "\n  line one\n  line two"
	if s != want {
		t.Errorf("value = %q, want %q", s, want)
	}
}

func TestBuildDuplicateKeyFoldsIntoChain(t *testing.T) {
	input := "tag = first\ntag = second\ntag = third"
	root := parseAndBuild(t, input, DefaultOptions())

	tag, err := root.Get("tag")
	if err != nil {
		t.Fatalf("Get(tag): %v", err)
	}
	if !tag.isFoldChain() {
		t.Fatalf("expected tag to fold into a chain, got kind=%v len=%d", tag.kind, tag.Len())
	}
	list, err := tag.AsList(DefaultOptions())
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(list) != len(want) {
		t.Fatalf("list = %+v, want %+v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, list[i], want[i])
		}
	}
}

func TestBuildNestedMap(t *testing.T) {
	input := "db =\n  host = localhost\n  port = 5432"
	root := parseAndBuild(t, input, DefaultOptions())

	db, err := root.Get("db")
	if err != nil {
		t.Fatalf("Get(db): %v", err)
	}
	if !db.IsMap() {
		t.Fatalf("expected db to be a map, got singleton %q", db.sctxt)
	}
	host, err := db.Get("host")
	if err != nil {
		t.Fatalf("Get(host): %v", err)
	}
	s, err := host.AsStr()
	if err != nil || s != "localhost" {
		t.Fatalf("host = %q, err = %v", s, err)
	}
	port, err := db.Get("port")
	if err != nil {
		t.Fatalf("Get(port): %v", err)
	}
	n, err := port.AsInt()
	if err != nil || n != 5432 {
		t.Fatalf("port = %d, err = %v", n, err)
	}
}

func TestBuildEmbeddedEqualsStaysOpaque(t *testing.T) {
	// A shell-style command value containing '=' on its own unindented
	// first line must not be treated as a nested map key/value pair.
	input := "install = FOO=bar somecmd --flag"
	root := parseAndBuild(t, input, DefaultOptions())

	install, err := root.Get("install")
	if err != nil {
		t.Fatalf("Get(install): %v", err)
	}
	s, err := install.AsStr()
	if err != nil {
		t.Fatalf("AsStr: %v", err)
	}
	if s != "FOO=bar somecmd --flag" {
		t.Errorf("value = %q", s)
	}
}

func TestAsListOnSingletonDisabledCoercion(t *testing.T) {
	input := "name = brew"
	root := parseAndBuild(t, input, DefaultOptions())
	name, _ := root.Get("name")
	list, err := name.AsList(DefaultOptions())
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func TestAsListOnSingletonEnabledCoercion(t *testing.T) {
	input := "name = brew"
	opts := DefaultOptions()
	opts.ListCoercion = ListCoercionEnabled
	root := parseAndBuild(t, input, opts)
	name, _ := root.Get("name")
	list, err := name.AsList(opts)
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(list) != 1 || list[0] != "brew" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestLexicalOrderKeys(t *testing.T) {
	input := "tag = zeta\ntag = alpha\ntag = mid"
	opts := DefaultOptions()
	opts.DuplicateKeys = LexicalOrderKeys
	root := parseAndBuild(t, input, opts)
	tag, _ := root.Get("tag")
	list, err := tag.AsList(opts)
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("list = %+v, want %+v", list, want)
		}
	}
}
