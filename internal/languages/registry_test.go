package languages

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Avaneesh2012/futuride/internal/config"
)

func testExecConfig() config.ExecutionConfig {
	return config.ExecutionConfig{
		PythonBin: "python3",
		CCompiler: "gcc",
	}
}

func TestRegistryDefaults(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testExecConfig())

	cases := []struct {
		id   string
		mode Mode
	}{
		{"python", ModeInterpret},
		{"c", ModeCompile},
		{"html", ModePreview},
		{"javascript", ModeEcho},
	}
	for _, tc := range cases {
		lang, err := r.Get(tc.id)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", tc.id, err)
		}
		if lang.Mode != tc.mode {
			t.Errorf("Get(%q).Mode = %q, want %q", tc.id, lang.Mode, tc.mode)
		}
		if lang.Template == "" {
			t.Errorf("Get(%q) has no starter template", tc.id)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testExecConfig())
	if _, err := r.Get("ruby"); !errors.Is(err, ErrLanguageNotFound) {
		t.Errorf("Get(ruby) = %v, want ErrLanguageNotFound", err)
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testExecConfig())
	langs := r.List()
	if len(langs) != 4 {
		t.Fatalf("List returned %d languages, want 4", len(langs))
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1].ID >= langs[i].ID {
			t.Errorf("List not sorted: %q before %q", langs[i-1].ID, langs[i].ID)
		}
	}
}

func TestDetectByFilename(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testExecConfig())

	cases := []struct {
		filename string
		want     string
	}{
		{"main.py", "python"},
		{"prog.c", "c"},
		{"index.HTML", "html"},
		{"app.js", "javascript"},
		{"notes.txt", "python"},
		{"noextension", "python"},
	}
	for _, tc := range cases {
		if got := r.DetectByFilename(tc.filename); got.ID != tc.want {
			t.Errorf("DetectByFilename(%q) = %q, want %q", tc.filename, got.ID, tc.want)
		}
	}
}

func TestExpandCommand(t *testing.T) {
	t.Parallel()

	template := []string{"gcc", SourcePlaceholder, "-o", BinaryPlaceholder, "-Wall"}
	got := ExpandCommand(template, "/tmp/a.c", "/tmp/a.out")
	want := []string{"gcc", "/tmp/a.c", "-o", "/tmp/a.out", "-Wall"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandCommand = %v, want %v", got, want)
	}

	// The template itself must stay untouched.
	if template[1] != SourcePlaceholder {
		t.Error("ExpandCommand mutated its template")
	}
}

func TestRegistryUsesConfiguredBinaries(t *testing.T) {
	t.Parallel()

	conf := config.ExecutionConfig{PythonBin: "/opt/py/bin/python", CCompiler: "clang"}
	r := NewRegistry(conf)

	python, _ := r.Get("python")
	if python.RunCommand[0] != "/opt/py/bin/python" {
		t.Errorf("python run command = %v, want configured binary first", python.RunCommand)
	}

	c, _ := r.Get("c")
	if c.CompileCommand[0] != "clang" {
		t.Errorf("c compile command = %v, want configured compiler first", c.CompileCommand)
	}
}
