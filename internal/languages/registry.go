package languages

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Avaneesh2012/futuride/internal/config"
)

var (
	ErrLanguageNotFound = errors.New("language not found")
)

type Registry struct {
	mu        sync.RWMutex
	languages map[string]Language
}

// NewRegistry builds a registry with the default language set, using the
// interpreter and compiler binaries named in the execution config.
func NewRegistry(conf config.ExecutionConfig) *Registry {
	r := &Registry{
		languages: make(map[string]Language),
	}
	r.registerDefaults(conf)
	return r
}

func (r *Registry) Register(lang Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages[lang.ID] = lang
}

func (r *Registry) Get(id string) (Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.languages[id]
	if !ok {
		return Language{}, ErrLanguageNotFound
	}
	return lang, nil
}

func (r *Registry) List() []Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]Language, 0, len(r.languages))
	for _, l := range r.languages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].ID < langs[j].ID })
	return langs
}

// DetectByFilename maps a filename's extension to a registered language.
// Unknown extensions default to python, matching the upload behavior of
// the web front-end.
func (r *Registry) DetectByFilename(name string) Language {
	ext := strings.ToLower(filepath.Ext(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, lang := range r.languages {
		if lang.Extension == ext {
			return lang
		}
	}
	return r.languages["python"]
}

func (r *Registry) registerDefaults(conf config.ExecutionConfig) {
	r.Register(Language{
		ID:        "python",
		Name:      "Python",
		Extension: ".py",
		Syntax:    "python",
		Template:  "print(\"Hello, World!\")",
		Mode:      ModeInterpret,
		RunCommand: []string{
			conf.PythonBin, SourcePlaceholder,
		},
	})

	r.Register(Language{
		ID:        "c",
		Name:      "C",
		Extension: ".c",
		Syntax:    "c",
		Template:  "#include <stdio.h>\n\nint main() {\n    printf(\"Hello, World!\\n\");\n    return 0;\n}",
		Mode:      ModeCompile,
		CompileCommand: []string{
			conf.CCompiler, SourcePlaceholder, "-o", BinaryPlaceholder, "-Wall", "-Wextra",
		},
		RunCommand: []string{
			BinaryPlaceholder,
		},
	})

	r.Register(Language{
		ID:        "html",
		Name:      "HTML",
		Extension: ".html",
		Syntax:    "html",
		Template:  "<!DOCTYPE html>\n<html>\n<head>\n    <title>Hello World</title>\n</head>\n<body>\n    <h1>Hello, World!</h1>\n</body>\n</html>",
		Mode:      ModePreview,
	})

	r.Register(Language{
		ID:        "javascript",
		Name:      "JavaScript",
		Extension: ".js",
		Syntax:    "javascript",
		Template:  "console.log(\"Hello, World!\");",
		Mode:      ModeEcho,
	})
}
